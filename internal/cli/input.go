package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/config"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/layout"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/logger"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/stats"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/subtitle"
	"github.com/nerdneilsfield/go-subtitle-segmenter/pkg/segment"
)

// errNoInput 既没有参数、文件，也没有管道输入
var errNoInput = errors.New("no input: pass text as arguments, use --input, or pipe a subtitle file")

// readInput 读取 --input 文件或管道输入
func readInput(cmd *cobra.Command, opts *rootOptions) ([]byte, error) {
	if opts.inputFile != "" {
		data, err := os.ReadFile(opts.inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	stdin := cmd.InOrStdin()
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errNoInput
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, errNoInput
	}
	return data, nil
}

// runDocument 处理整个字幕文件
func runDocument(cmd *cobra.Command, opts *rootOptions, cfg *config.Config,
	seg *segment.Segmenter, box layout.Box, log *zap.Logger) error {
	raw, err := readInput(cmd, opts)
	if err != nil {
		return err
	}

	text, err := subtitle.Decode(raw, cfg.InputEncoding)
	if err != nil {
		return err
	}
	doc, err := subtitle.Parse(text)
	if err != nil {
		return err
	}

	target := doc.Format
	if opts.outputFile != "" {
		if f, err := subtitle.FormatFromPath(opts.outputFile); err == nil {
			target = f
		}
	}

	procOpts := []subtitle.ProcessorOption{
		subtitle.WithConcurrency(cfg.Concurrency),
		subtitle.WithForce(opts.force),
		subtitle.WithLogger(logger.NewZapLogger(log)),
	}
	var bar *pterm.ProgressbarPrinter
	if showProgress(opts) {
		bar, err = pterm.DefaultProgressbar.
			WithTotal(len(doc.Cues)).
			WithTitle("分行处理").
			WithWriter(os.Stderr).
			Start()
		if err == nil {
			procOpts = append(procOpts, subtitle.WithProgress(func(done, total int) {
				bar.Increment()
			}))
		} else {
			bar = nil
		}
	}

	report, err := subtitle.NewProcessor(seg, box, procOpts...).Process(cmd.Context(), doc)
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}
	if cfg.Verbose {
		stats.PrintSummary(cmd.ErrOrStderr(), report)
	}

	return writeOutput(cmd, opts, func(w io.Writer) error {
		return renderDocument(w, doc, target, report, opts.format, cfg.BoxWidth)
	})
}

// showProgress 只在 stderr 是终端时显示进度条
func showProgress(opts *rootOptions) bool {
	return !opts.noColor && term.IsTerminal(int(os.Stderr.Fd()))
}

// writeOutput 写到 --output 文件或标准输出
func writeOutput(cmd *cobra.Command, opts *rootOptions, render func(w io.Writer) error) error {
	if opts.outputFile == "" {
		return render(cmd.OutOrStdout())
	}

	f, err := os.Create(opts.outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
