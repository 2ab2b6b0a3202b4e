package subtitle

import (
	"strconv"
	"strings"
)

// Render 按文档自身的格式写回
func Render(doc *Document) string {
	return RenderAs(doc, doc.Format)
}

// RenderAs 按指定格式写回，时间轴中的小数点分隔符随格式转换
func RenderAs(doc *Document, format Format) string {
	var b strings.Builder
	switch format {
	case FormatSRT:
		for i, cue := range doc.Cues {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteByte('\n')
			writeTiming(&b, cue, srtTimestamp)
			writeLines(&b, cue.Lines)
		}
	case FormatVTT:
		header := doc.Header
		if header == "" {
			header = "WEBVTT"
		}
		b.WriteString(header)
		b.WriteByte('\n')
		for _, cue := range doc.Cues {
			for _, note := range cue.Notes {
				b.WriteByte('\n')
				b.WriteString(note)
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
			if cue.ID != "" {
				b.WriteString(cue.ID)
				b.WriteByte('\n')
			}
			writeTiming(&b, cue, vttTimestamp)
			writeLines(&b, cue.Lines)
		}
		for _, note := range doc.Trailing {
			b.WriteByte('\n')
			b.WriteString(note)
			b.WriteByte('\n')
		}
	default:
		for _, cue := range doc.Cues {
			writeLines(&b, cue.Lines)
		}
	}
	return b.String()
}

func writeTiming(b *strings.Builder, cue *Cue, stamp func(string) string) {
	b.WriteString(stamp(cue.Start))
	b.WriteString(" --> ")
	b.WriteString(stamp(cue.End))
	if cue.Settings != "" {
		b.WriteByte(' ')
		b.WriteString(cue.Settings)
	}
	b.WriteByte('\n')
}

func writeLines(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// srtTimestamp SRT 要求 hh:mm:ss,ttt，WebVTT 省略的小时补为两位
func srtTimestamp(ts string) string {
	ts = convertSeparator(ts, ",")
	switch i := strings.IndexByte(ts, ':'); {
	case strings.Count(ts, ":") == 1:
		ts = "00:" + ts
	case i == 1:
		ts = "0" + ts
	}
	return ts
}

func vttTimestamp(ts string) string {
	return convertSeparator(ts, ".")
}

// convertSeparator 替换毫秒前的分隔符
func convertSeparator(ts, sep string) string {
	i := strings.LastIndexAny(ts, ",.")
	if i < 0 {
		return ts
	}
	return ts[:i] + sep + ts[i+1:]
}
