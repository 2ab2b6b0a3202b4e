// Package layout 字幕显示框约定
//
// 调用方只在文本超出显示框时才调用分行引擎，这里把这一约定集中在一处。
package layout

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// width 按东亚宽字符占两格计算，歧义宽度字符固定按一格，不受终端区域设置影响
var width = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Box 字幕显示框
type Box struct {
	Width     int // 每行可用的显示单元格
	Threshold int // 超过此字符数即需要分行
}

// DefaultBox 返回默认显示框
func DefaultBox() Box {
	return Box{Width: 42, Threshold: 50}
}

// NeedsSegmentation 判断一条字幕是否需要交给分行引擎
func (b Box) NeedsSegmentation(text string) bool {
	return utf8.RuneCountInString(text) > b.Threshold || b.Overflows(text)
}

// Overflows 判断单行是否超出显示宽度
func (b Box) Overflows(line string) bool {
	return b.Width > 0 && width.StringWidth(line) > b.Width
}

// LineMetrics 单行的长度信息
type LineMetrics struct {
	Text  string `json:"text"`
	Runes int    `json:"runes"`
	Width int    `json:"width"`
}

// Measure 返回每行的字符数和显示宽度
func Measure(lines []string) []LineMetrics {
	metrics := make([]LineMetrics, len(lines))
	for i, line := range lines {
		metrics[i] = LineMetrics{
			Text:  line,
			Runes: utf8.RuneCountInString(line),
			Width: width.StringWidth(line),
		}
	}
	return metrics
}

// Pad 右侧补空格到指定显示宽度，超宽时截断并加省略号
func Pad(line string, cells int) string {
	if width.StringWidth(line) > cells {
		line = width.Truncate(line, cells, "…")
	}
	return width.FillRight(line, cells)
}
