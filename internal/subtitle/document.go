// Package subtitle 字幕文件的读取、分行处理与写回
package subtitle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Format 字幕文件格式
type Format int

const (
	FormatPlain Format = iota
	FormatSRT
	FormatVTT
)

// String 返回格式名称
func (f Format) String() string {
	switch f {
	case FormatSRT:
		return "srt"
	case FormatVTT:
		return "vtt"
	default:
		return "plain"
	}
}

// ParseFormat 由名称得到格式
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "txt", "text":
		return FormatPlain, nil
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	}
	return FormatPlain, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// FormatFromPath 由文件扩展名推断格式
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Cue 一条字幕
type Cue struct {
	Index    int      // SRT 序号，0 表示没有
	ID       string   // WebVTT 标识
	Start    string   // 开始时间，保持原文
	End      string   // 结束时间，保持原文
	Settings string   // 时间轴之后的显示设置
	Lines    []string // 字幕文本行
	// Notes 出现在本条之前的 NOTE、STYLE、REGION 块
	Notes []string
}

// Text 把多行字幕用单个空格连成一行
func (c *Cue) Text() string {
	parts := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// Document 字幕文档
type Document struct {
	Format Format
	Header string // WebVTT 头部块
	Cues   []*Cue
	// Trailing 最后一条之后的 WebVTT 非字幕块
	Trailing []string
}

var (
	reTiming    = regexp.MustCompile(`^\s*(\S+)\s+-->\s+(\S+)\s*(.*)$`)
	reTimestamp = regexp.MustCompile(`^(?:\d+:)?\d{1,2}:\d{2}[,.]\d{1,3}$`)
)

// Parse 解析字幕文本，自动识别 SRT、WebVTT 与纯文本
func Parse(text string) (*Document, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	blocks := splitBlocks(text)
	switch {
	case strings.HasPrefix(blocks[0].lines[0], "WEBVTT"):
		return parseVTT(blocks)
	case looksLikeSRT(blocks[0]):
		return parseSRT(blocks)
	default:
		return parsePlain(text), nil
	}
}

// block 以空行分隔的一组行，line 为首行行号
type block struct {
	line  int
	lines []string
}

func splitBlocks(text string) []block {
	var blocks []block
	var current *block
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			current = nil
			continue
		}
		if current == nil {
			blocks = append(blocks, block{line: i + 1})
			current = &blocks[len(blocks)-1]
		}
		current.lines = append(current.lines, strings.TrimRight(line, " \t"))
	}
	return blocks
}

func looksLikeSRT(b block) bool {
	if reTiming.MatchString(b.lines[0]) {
		return true
	}
	return len(b.lines) > 1 && reTiming.MatchString(b.lines[1])
}

func parseTiming(cue *Cue, line string, lineNo int) error {
	m := reTiming.FindStringSubmatch(line)
	if m == nil {
		return &ParseError{Line: lineNo, Reason: "missing timing line"}
	}
	if !reTimestamp.MatchString(m[1]) || !reTimestamp.MatchString(m[2]) {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("invalid timestamp in %q", line)}
	}
	cue.Start, cue.End, cue.Settings = m[1], m[2], m[3]
	return nil
}

func parseSRT(blocks []block) (*Document, error) {
	doc := &Document{Format: FormatSRT}
	for _, b := range blocks {
		cue := &Cue{}
		timingAt := 0
		if !reTiming.MatchString(b.lines[0]) {
			index, err := strconv.Atoi(strings.TrimSpace(b.lines[0]))
			if err != nil {
				// 没有时间轴的块视为上一条字幕的续行
				if len(doc.Cues) > 0 && (len(b.lines) < 2 || !reTiming.MatchString(b.lines[1])) {
					last := doc.Cues[len(doc.Cues)-1]
					last.Lines = append(last.Lines, b.lines...)
					continue
				}
				return nil, &ParseError{Line: b.line, Reason: fmt.Sprintf("invalid cue index %q", b.lines[0])}
			}
			cue.Index = index
			timingAt = 1
		}
		if timingAt >= len(b.lines) {
			return nil, &ParseError{Line: b.line, Reason: "missing timing line"}
		}
		if err := parseTiming(cue, b.lines[timingAt], b.line+timingAt); err != nil {
			return nil, err
		}
		cue.Lines = append([]string(nil), b.lines[timingAt+1:]...)
		doc.Cues = append(doc.Cues, cue)
	}
	return doc, nil
}

func parseVTT(blocks []block) (*Document, error) {
	doc := &Document{Format: FormatVTT, Header: strings.Join(blocks[0].lines, "\n")}

	var notes []string
	for _, b := range blocks[1:] {
		timingAt := -1
		switch {
		case reTiming.MatchString(b.lines[0]):
			timingAt = 0
		case len(b.lines) > 1 && reTiming.MatchString(b.lines[1]):
			timingAt = 1
		}
		if timingAt < 0 {
			notes = append(notes, strings.Join(b.lines, "\n"))
			continue
		}

		cue := &Cue{Notes: notes}
		notes = nil
		if timingAt == 1 {
			cue.ID = b.lines[0]
		}
		if err := parseTiming(cue, b.lines[timingAt], b.line+timingAt); err != nil {
			return nil, err
		}
		cue.Lines = append([]string(nil), b.lines[timingAt+1:]...)
		doc.Cues = append(doc.Cues, cue)
	}
	doc.Trailing = notes
	return doc, nil
}

func parsePlain(text string) *Document {
	doc := &Document{Format: FormatPlain}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			doc.Cues = append(doc.Cues, &Cue{Lines: []string{line}})
		}
	}
	return doc
}
