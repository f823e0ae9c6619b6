package layout

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DocInTardis/writing-agent/document"
	"github.com/DocInTardis/writing-agent/measure"
)

// blockLayouter 将单个文档块排成视觉行。
// 引擎持有一个带折行缓存的实例；并行路径为每个任务建无缓存的临时实例。
// breakBuf 与 scratch 跨调用复用，因此单个实例不可并发使用。
type blockLayouter struct {
	measurer measure.TextMeasurer
	breaker  measure.LineBreaker
	assets   *AssetCache
	breaks   *breakCache // nil 时每次重新计算折行点
	breakBuf []int
	scratch  []byte
}

// layoutBlock 排版一个块。cache 非 nil 时启用子项缓存与行池。
func (bl *blockLayouter) layoutBlock(b *document.Block, cfg *Config, cache *Cache) *Block {
	width := cfg.contentWidth()
	lineUnit := cfg.Metrics.FontSize * cfg.Metrics.LineHeight
	out := &Block{BlockID: b.ID, Kind: b.Kind, Level: b.Level}

	switch b.Kind {
	case document.KindHeading, document.KindParagraph:
		out.Lines = bl.wrapText(document.Text(b.Content), width, cfg.Metrics, cache)

	case document.KindList:
		lines := bl.allocLines(cache, len(b.Items)*2)
		for idx := range b.Items {
			item := &b.Items[idx]
			sig := hashListItem(b.Ordered, item.Content)
			if cache != nil {
				if hit, ok := cache.GetListItem(b.ID, idx, sig); ok {
					lines = append(lines, hit...)
					continue
				}
			}
			bl.scratch = bl.scratch[:0]
			if b.Ordered {
				bl.scratch = strconv.AppendInt(bl.scratch, int64(idx+1), 10)
				bl.scratch = append(bl.scratch, ' ')
			} else {
				bl.scratch = append(bl.scratch, "• "...)
			}
			bl.scratch = document.AppendText(bl.scratch, item.Content)
			wrapped := bl.wrapText(string(bl.scratch), width, cfg.Metrics, cache)
			if cache != nil {
				cache.PutListItem(b.ID, idx, sig, wrapped)
			}
			lines = append(lines, wrapped...)
		}
		out.Lines = lines

	case document.KindQuote:
		lines := bl.allocLines(cache, len(b.Children)*2)
		for idx, inner := range b.Children {
			if inner.Kind != document.KindParagraph {
				continue
			}
			sig := hashInlinesValue(inner.Content)
			if cache != nil {
				if hit, ok := cache.GetQuoteItem(b.ID, idx, sig); ok {
					lines = append(lines, hit...)
					continue
				}
			}
			wrapped := bl.wrapText(document.Text(inner.Content), width, cfg.Metrics, cache)
			if cache != nil {
				cache.PutQuoteItem(b.ID, idx, sig, wrapped)
			}
			lines = append(lines, wrapped...)
		}
		out.Lines = lines

	case document.KindCode:
		// 代码块不折行：每个源码行原样成为一条视觉行。
		lineCount := strings.Count(b.Code, "\n") + 1
		lines := bl.allocLines(cache, lineCount)
		for _, l := range codeLines(b.Code) {
			lines = append(lines, Line{Text: l, Width: bl.measurer.Measure(l, cfg.Metrics)})
		}
		out.Lines = lines

	case document.KindTable:
		lines := bl.allocLines(cache, len(b.Rows))
		for ri, row := range b.Rows {
			sig := hashRow(row)
			if cache != nil {
				if hit, ok := cache.GetTableRow(b.ID, ri, sig); ok {
					lines = append(lines, hit...)
					continue
				}
			}
			bl.scratch = bl.scratch[:0]
			for ci := range row {
				if ci > 0 {
					bl.scratch = append(bl.scratch, " | "...)
				}
				bl.scratch = document.AppendText(bl.scratch, row[ci].Content)
			}
			rowLine := Line{Text: string(bl.scratch), Width: width}
			lines = append(lines, rowLine)
			if cache != nil {
				cache.PutTableRow(b.ID, ri, sig, []Line{rowLine})
			}
		}
		out.Lines = lines
		out.Height = float64(len(out.Lines)) * lineUnit
		out.Meta = &Meta{Width: width, Height: out.Height}
		return out

	case document.KindFigure:
		asset := bl.assets.Load(b.URL)
		assetW, assetH := asset.Width, asset.Height
		if b.Size != nil {
			assetW = max(b.Size.Width, 1.0)
			assetH = max(b.Size.Height, 1.0)
		}
		caption := b.Caption
		if caption == "" {
			caption = "图片"
		}
		out.Lines = bl.wrapText(caption, width, cfg.Metrics, cache)
		out.Height = assetH + float64(len(out.Lines))*lineUnit
		out.Meta = &Meta{Width: assetW, Height: assetH}
		return out
	}

	out.Height = float64(len(out.Lines)) * lineUnit
	return out
}

// wrapText 将文本折成不超过 width 的视觉行。
// 扫描过程中记录最近一次合法折行点及其前缀宽度；字符溢出时优先退回
// 合法折行点，没有则硬切。与折行点重合的溢出字符按合法折行处理。
// 折行点经禁则调整后需要重新测量，否则复用扫描中累计的宽度。
func (bl *blockLayouter) wrapText(text string, width float64, m measure.Metrics, cache *Cache) []Line {
	if text == "" {
		return append(bl.allocLines(cache, 1), Line{})
	}
	bl.fillBreakBuf(text, width, m.FontSize)
	breaks := bl.breakBuf
	out := bl.allocLines(cache, len(breaks)+1)

	breakIdx := 0
	start := 0
	lastBreak := -1
	lastBreakWidth := 0.0
	currentWidth := 0.0

	for pos := 0; pos < len(text); {
		r, size := utf8.DecodeRuneInString(text[pos:])
		nextPos := pos + size
		for breakIdx < len(breaks) && breaks[breakIdx] < pos {
			breakIdx++
		}
		if breakIdx < len(breaks) && breaks[breakIdx] == pos {
			lastBreak = pos
			lastBreakWidth = currentWidth
		}
		w := bl.measurer.MeasureRune(r, m)
		currentWidth += w
		totalWidth := currentWidth

		if currentWidth > width && pos > start {
			breakPos := pos
			if lastBreak >= 0 {
				breakPos = lastBreak
			}
			if breakPos <= start {
				breakPos = pos
			}
			adjusted := false
			if ap := measure.AdjustBreak(text, start, breakPos); ap != breakPos {
				adjusted = true
				breakPos = ap
			}
			slice := strings.TrimRightFunc(text[start:breakPos], unicode.IsSpace)
			if slice != "" {
				var sliceWidth float64
				switch {
				case !adjusted && breakPos == lastBreak:
					sliceWidth = lastBreakWidth
				case !adjusted && breakPos == pos:
					sliceWidth = max(currentWidth-w, 0)
				default:
					sliceWidth = bl.measurer.Measure(slice, m)
				}
				out = append(out, Line{Text: slice, Width: sliceWidth})
			}
			var baseWidth float64
			switch {
			case !adjusted && breakPos == lastBreak:
				baseWidth = lastBreakWidth
			case !adjusted && breakPos == pos:
				baseWidth = max(currentWidth-w, 0)
			default:
				baseWidth = bl.measurer.Measure(text[start:breakPos], m)
			}
			prevBreak := lastBreak
			start = breakPos
			currentWidth = 0
			if start < nextPos {
				switch {
				case !adjusted && breakPos == prevBreak:
					currentWidth = max(totalWidth-baseWidth, 0)
				case !adjusted && breakPos == pos:
					currentWidth = w
				default:
					currentWidth = bl.measurer.Measure(text[start:nextPos], m)
				}
			}
			lastBreak = -1
			lastBreakWidth = 0
		}
		pos = nextPos
	}

	slice := strings.TrimRightFunc(text[start:], unicode.IsSpace)
	if slice != "" {
		sliceWidth := currentWidth
		if len(slice) != len(text)-start {
			sliceWidth = bl.measurer.Measure(slice, m)
		}
		out = append(out, Line{Text: slice, Width: sliceWidth})
	}
	if len(out) == 0 {
		out = append(out, Line{})
	}
	return out
}

// fillBreakBuf 把 text 的折行点填入 breakBuf，结果经折行缓存记忆。
func (bl *blockLayouter) fillBreakBuf(text string, width, fontSize float64) {
	if bl.breaks == nil {
		bl.breakBuf = bl.breaker.BreakPositionsInto(text, bl.breakBuf)
		return
	}
	key := makeBreakKey(text, width, fontSize)
	if cached, ok := bl.breaks.get(key, len(text), bl.breakBuf); ok {
		bl.breakBuf = cached
		return
	}
	bl.breakBuf = bl.breaker.BreakPositionsInto(text, bl.breakBuf)
	bl.breaks.put(key, len(text), bl.breakBuf)
}

// allocLines 优先复用行池中的存储。
func (bl *blockLayouter) allocLines(cache *Cache, capHint int) []Line {
	var out []Line
	if cache != nil {
		out = cache.takeLines()
	}
	if out == nil && capHint > 0 {
		out = make([]Line, 0, capHint)
	}
	return out
}

// codeLines 按换行拆分代码，语义同逐行读取：丢弃行尾 \n 与 \r，
// 末尾换行不会产生多余空行。
func codeLines(code string) []string {
	if code == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
