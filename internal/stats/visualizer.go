// Package stats 处理结果的统计展示
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/subtitle"
)

// PrintSummary 打印一次字幕处理的统计
func PrintSummary(w io.Writer, report *subtitle.Report) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(w, "Segmentation Summary")
	title.Fprintln(w, strings.Repeat("=", 40))

	printSection(w, "Overall", [][]string{
		{"Job ID", report.JobID},
		{"Cues", fmt.Sprint(report.Cues)},
		{"Segmented", fmt.Sprintf("%d (%s)", report.Segmented, formatPercent(report.Segmented, report.Cues))},
		{"Skipped", fmt.Sprint(report.Skipped)},
		{"Duration", formatDuration(report.Duration)},
	})

	if len(report.Tiers) == 0 {
		return
	}
	rows := make([][]string, 0, len(report.Tiers))
	for tier, n := range report.Tiers {
		rows = append(rows, []string{tier.String(), fmt.Sprint(n)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	fmt.Fprintln(w)
	printSection(w, "Tiers", rows)
}

// printSection 打印一个统计部分
func printSection(w io.Writer, title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintf(w, "%s\n", title)

	maxLabelLen := 0
	for _, row := range data {
		if len(row[0]) > maxLabelLen {
			maxLabelLen = len(row[0])
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)
	for _, row := range data {
		labelColor.Fprintf(w, "  %-*s: ", maxLabelLen, row[0])
		valueColor.Fprintln(w, row[1])
	}
}

func formatPercent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
