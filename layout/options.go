package layout

import (
	"os"
	"runtime"

	"github.com/DocInTardis/writing-agent/measure"
)

// Config 描述单次布局的页面参数。
type Config struct {
	PageWidth  float64         `json:"pageWidth"`
	PageHeight float64         `json:"pageHeight"`
	Margin     float64         `json:"margin"`
	Metrics    measure.Metrics `json:"metrics"`
	// Paged 为 false 时进入滚动模式：所有块排进单个无限高页面。
	Paged bool `json:"paged"`
}

// DefaultConfig 返回 A4@96dpi 的默认页面参数。
func DefaultConfig() Config {
	return Config{
		PageWidth:  794.0,
		PageHeight: 1123.0,
		Margin:     64.0,
		Metrics:    measure.DefaultMetrics(),
		Paged:      true,
	}
}

// contentWidth 返回去掉左右边距后的可用宽度。
func (c *Config) contentWidth() float64 {
	return c.PageWidth - c.Margin*2
}

// maxContentHeight 返回去掉上下边距后的可用高度。
func (c *Config) maxContentHeight() float64 {
	return c.PageHeight - c.Margin*2
}

// EngineOptions 配置引擎的容量与行为开关。
// 所有开关在构造引擎时一次性解析，排版热路径不再读取环境。
type EngineOptions struct {
	// LowSpec 启用低配容量（缓存减半或更少）。
	LowSpec bool
	// Parallel 允许大文档走并行布局路径。
	Parallel bool
	// Diagnostics 在每次布局后输出一行缓存命中率日志。
	Diagnostics bool
	// FontPath 优先尝试的字体文件；为空时按系统候选列表查找。
	FontPath string
	// Workers 并行路径的最大并发数，<=0 时取 GOMAXPROCS。
	Workers int
}

// OptionsFromEnv 从环境变量解析一次引擎选项：
// WA_LOW_SPEC、WA_LAYOUT_PAR、WA_DIAG 取值 "1" 时开启，WA_FONT_PATH 指定字体。
func OptionsFromEnv() EngineOptions {
	return EngineOptions{
		LowSpec:     os.Getenv("WA_LOW_SPEC") == "1",
		Parallel:    os.Getenv("WA_LAYOUT_PAR") == "1",
		Diagnostics: os.Getenv("WA_DIAG") == "1",
		FontPath:    os.Getenv("WA_FONT_PATH"),
	}
}

// 容量常量。低配取右侧值。
const (
	shortBreakCapDefault = 4096
	shortBreakCapLowSpec = 1024
	longBreakCapDefault  = 512
	longBreakCapLowSpec  = 256
	glyphCapDefault      = 8192
	glyphCapLowSpec      = 2048

	// 短文本阈值：折行点缓存按此区分 map 与 LRU 两层。
	shortTextLimit = 128
	// 预热时最多收集的不同字符数。
	prewarmLimit = 512
	// 超过该块数且允许并行时走并行路径。
	parallelThreshold = 512
)

func (o EngineOptions) shortBreakCap() int {
	if o.LowSpec {
		return shortBreakCapLowSpec
	}
	return shortBreakCapDefault
}

func (o EngineOptions) longBreakCap() int {
	if o.LowSpec {
		return longBreakCapLowSpec
	}
	return longBreakCapDefault
}

func (o EngineOptions) glyphCap() int {
	if o.LowSpec {
		return glyphCapLowSpec
	}
	return glyphCapDefault
}

func (o EngineOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
