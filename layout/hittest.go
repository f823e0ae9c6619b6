package layout

import (
	"github.com/DocInTardis/writing-agent/document"
	"github.com/DocInTardis/writing-agent/measure"
)

// HitTester 把视口坐标换算回文档位置。
// 使用与排版相同的测量器，保证光标落点与视觉行一致。
type HitTester struct {
	measurer measure.TextMeasurer
}

// NewHitTester 用给定测量器创建命中测试器。
func NewHitTester(m measure.TextMeasurer) *HitTester {
	return &HitTester{measurer: m}
}

// HitTest 返回坐标 (x, y) 对应的文档位置。
// y 沿页面顶端累计，页与页之间间隔 pageGap；
// 页内先走边距，再按行高逐行推进，行内按字符宽度累加找到列。
// 坐标落在页间空隙或所有内容之外时返回 false。
func (h *HitTester) HitTest(tree *Tree, cfg *Config, x, y, pageGap float64) (document.Position, bool) {
	lineHeight := cfg.Metrics.FontSize * cfg.Metrics.LineHeight
	pageTop := 0.0
	for pi := range tree.Pages {
		page := &tree.Pages[pi]
		pageBottom := pageTop + cfg.PageHeight
		if y >= pageTop && y <= pageBottom {
			cursorY := pageTop + cfg.Margin
			for _, block := range page.Blocks {
				for li := range block.Lines {
					lineTop := cursorY
					lineBottom := cursorY + lineHeight
					if y >= lineTop && y <= lineBottom {
						return document.Position{
							BlockID: block.BlockID,
							Offset:  h.charOffset(block.Lines[li].Text, cfg, x),
						}, true
					}
					cursorY += lineHeight
				}
				// 块与块之间留半个字号的间隔
				cursorY += cfg.Metrics.FontSize * 0.5
			}
		}
		pageTop = pageBottom + pageGap
	}
	return document.Position{}, false
}

// charOffset 返回行内 x 坐标之前的字符数。
func (h *HitTester) charOffset(text string, cfg *Config, x float64) int {
	acc := 0.0
	offset := 0
	for _, r := range text {
		w := h.measurer.MeasureRune(r, cfg.Metrics)
		if cfg.Margin+acc+w >= x {
			break
		}
		acc += w
		offset++
	}
	return offset
}
