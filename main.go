package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/DocInTardis/writing-agent/document"
	"github.com/DocInTardis/writing-agent/dsl"
	"github.com/DocInTardis/writing-agent/layout"
)

func main() {
	input := flag.String("in", "", "文档夹具文件路径；为空时使用内置基准文档")
	dataJSON := flag.String("data", "", "绑定到夹具的 JSON 数据")
	blocks := flag.Int("blocks", 1000, "内置基准文档的段落数")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	rounds := flag.Int("rounds", 2, "增量排版轮数")
	flag.Parse()

	doc, err := loadDocument(*input, *dataJSON, *blocks)
	if err != nil {
		log.Fatalf("构建文档失败: %v", err)
	}

	if err := run(doc, *debug, *rounds); err != nil {
		log.Fatalf("排版失败: %v", err)
	}
}

// loadDocument 从夹具文件构建文档；未指定文件时生成内置基准文档。
func loadDocument(inputPath, dataJSON string, blocks int) (*document.Document, error) {
	if inputPath == "" {
		return benchmarkDocument(blocks), nil
	}

	var data any
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开夹具文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	parsed, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析夹具失败: %w", err)
	}
	return dsl.Build(parsed, data)
}

// run 执行一次全量排版与若干轮增量排版并输出耗时与缓存统计。
func run(doc *document.Document, debugPath string, rounds int) error {
	engine := layout.NewEngine(layout.OptionsFromEnv())
	cfg := layout.DefaultConfig()

	start := time.Now()
	tree := engine.Layout(doc, &cfg)
	full := time.Since(start)
	fmt.Printf("全量排版: %d 块 -> %d 页, 耗时 %v\n", len(doc.Blocks), len(tree.Pages), full)

	cache := layout.NewCache()
	for i := 0; i < rounds; i++ {
		if i > 0 && len(doc.Blocks) > 0 {
			// 每轮改动一个块，观察增量路径的复用效果
			idx := i % len(doc.Blocks)
			touchBlock(doc.Blocks[idx], i)
			doc.Touch()
		}
		start = time.Now()
		cached := engine.LayoutCached(doc, &cfg, cache)
		fmt.Printf("增量排版 #%d: %d 页, 耗时 %v\n", i+1, len(cached.Pages), time.Since(start))
		doc.ClearDirty()
		if i < rounds-1 {
			cached.Recycle(cache)
		} else {
			tree = cached
		}
	}

	stats := engine.Stats()
	fmt.Printf("折行缓存: 命中 %d / 未中 %d (%.0f%%), 字形缓存命中率 %.0f%%\n",
		stats.BreakCacheHits, stats.BreakCacheMisses,
		stats.BreakCacheHitRate*100, stats.GlyphCacheHitRate*100)

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(tree, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		fmt.Printf("已输出调试 JSON：%s\n", debugPath)
	}
	return nil
}

func touchBlock(b *document.Block, round int) {
	if b.Kind == document.KindParagraph || b.Kind == document.KindHeading {
		b.Content = document.PlainText(fmt.Sprintf("第 %d 轮修改后的内容。", round))
	}
	b.Dirty = true
}

// benchmarkDocument 生成混合块型的基准文档，文本覆盖中日韩、
// 拉丁、阿拉伯与西里尔字符，贴近真实排版负载。
func benchmarkDocument(blocks int) *document.Document {
	doc := document.New()
	doc.Metadata.Title = "布局性能基准"

	const cjk = "这是一些测试文本，用于布局性能评估。"
	const mixed = "Hello 世界 مرحبا Привет 12345 テスト입니다."

	for i := 0; i < blocks; i++ {
		var b *document.Block
		switch i % 10 {
		case 0:
			b = &document.Block{Kind: document.KindHeading, Level: 1 + i%3, Content: document.PlainText(fmt.Sprintf("第 %d 节", i/10+1))}
		case 5:
			b = &document.Block{Kind: document.KindList, Ordered: i%20 == 5, Items: []document.ListItem{
				{ID: uuid.New(), Content: document.PlainText(cjk)},
				{ID: uuid.New(), Content: document.PlainText(mixed)},
			}}
		case 7:
			b = &document.Block{Kind: document.KindCode, Lang: "go", Code: "func main() {\n\tprintln(\"基准\")\n}\n"}
		default:
			text := cjk
			if i%2 == 1 {
				text = mixed
			}
			b = &document.Block{Kind: document.KindParagraph, Content: document.PlainText(text)}
		}
		b.ID = uuid.New()
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc
}
