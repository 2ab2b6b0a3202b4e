package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"

	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/config"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/layout"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/subtitle"
)

// renderLine 输出单条文本的分行结果
func renderLine(w io.Writer, res lineResult, format string, boxWidth int) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)

	case outputTable:
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"#", "Line", "Runes", "Width"})
		for i, line := range res.Lines {
			tw.AppendRow(table.Row{i + 1, line.Text, line.Runes, line.Width})
		}
		tw.AppendFooter(table.Row{"", "tier: " + res.Tier, "", ""})
		tw.SetStyle(table.StyleLight)
		tw.Render()
		return nil

	case outputBox:
		lines := make([]string, len(res.Lines))
		for i, line := range res.Lines {
			lines[i] = line.Text
		}
		_, err := fmt.Fprintln(w, boxed(res.Tier, lines, boxWidth))
		return err

	default:
		overflow := color.New(color.FgRed)
		for _, line := range res.Lines {
			var err error
			if line.Width > boxWidth {
				_, err = overflow.Fprintln(w, line.Text)
			} else {
				_, err = fmt.Fprintln(w, line.Text)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// boxed 用字幕框预览分行结果，每行补齐到框宽
func boxed(title string, lines []string, boxWidth int) string {
	padded := make([]string, len(lines))
	for i, line := range lines {
		padded[i] = layout.Pad(line, boxWidth)
	}
	return pterm.DefaultBox.WithTitle(title).Sprint(strings.Join(padded, "\n"))
}

// cueResult JSON 输出中的一条字幕
type cueResult struct {
	Index int      `json:"index"`
	ID    string   `json:"id,omitempty"`
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
	Lines []string `json:"lines"`
}

// documentResult JSON 输出中的整个文件
type documentResult struct {
	JobID     string         `json:"job_id"`
	Format    string         `json:"format"`
	Segmented int            `json:"segmented"`
	Skipped   int            `json:"skipped"`
	Tiers     map[string]int `json:"tiers"`
	Cues      []cueResult    `json:"cues"`
}

// renderDocument 输出处理后的字幕文件
func renderDocument(w io.Writer, doc *subtitle.Document, target subtitle.Format,
	report *subtitle.Report, format string, boxWidth int) error {
	switch format {
	case outputJSON:
		result := documentResult{
			JobID:     report.JobID,
			Format:    target.String(),
			Segmented: report.Segmented,
			Skipped:   report.Skipped,
			Tiers:     make(map[string]int, len(report.Tiers)),
			Cues:      make([]cueResult, len(doc.Cues)),
		}
		for tier, n := range report.Tiers {
			result.Tiers[tier.String()] = n
		}
		for i, cue := range doc.Cues {
			result.Cues[i] = cueResult{
				Index: i + 1,
				ID:    cue.ID,
				Start: cue.Start,
				End:   cue.End,
				Lines: cue.Lines,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)

	case outputTable:
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"#", "Time", "Text"})
		for i, cue := range doc.Cues {
			timing := ""
			if cue.Start != "" {
				timing = cue.Start + " --> " + cue.End
			}
			tw.AppendRow(table.Row{i + 1, timing, strings.Join(cue.Lines, "\n")})
		}
		tw.AppendFooter(table.Row{"", "segmented", fmt.Sprintf("%d / %d", report.Segmented, report.Cues)})
		tw.SetStyle(table.StyleLight)
		tw.Render()
		return nil

	case outputBox:
		for i, cue := range doc.Cues {
			title := fmt.Sprintf("#%d", i+1)
			if cue.Start != "" {
				title += " " + cue.Start
			}
			if _, err := fmt.Fprintln(w, boxed(title, cue.Lines, boxWidth)); err != nil {
				return err
			}
		}
		return nil

	default:
		_, err := io.WriteString(w, subtitle.RenderAs(doc, target))
		return err
	}
}

// renderConfig 以表格显示当前配置
func renderConfig(w io.Writer, cfg *config.Config) error {
	settings := cfg.Settings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Key", "Value"})
	for _, k := range keys {
		tw.AppendRow(table.Row{k, settings[k]})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}
