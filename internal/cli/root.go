package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/config"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/layout"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/logger"
	"github.com/nerdneilsfield/go-subtitle-segmenter/pkg/segment"
)

// 输出格式
const (
	outputPlain = "plain"
	outputJSON  = "json"
	outputTable = "table"
	outputBox   = "box"
)

var outputFormats = []string{outputPlain, outputJSON, outputTable, outputBox}

// rootOptions 命令行标志
type rootOptions struct {
	cfgFile     string
	inputFile   string
	outputFile  string
	format      string
	encoding    string
	debug       bool
	verbose     bool // 控制台格式的详细日志
	showConfig  bool
	saveConfig  string
	noColor     bool
	force       bool // 未超出显示框也执行分行
	boxWidth    int
	concurrency int
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "segmenter [flags] [text...]",
		Short: "字幕分行工具，把过长的字幕拆成最多两行",
		Long: `字幕分行工具把一行过长的字幕拆成最多两行，且不会拆开单词、缩写、小数、
引号片段、省略号、链接、邮箱和文件路径。

依次尝试句子边界、分句标点和按词折行，都不满足质量要求时原样返回。

输入来源（按优先级）：
  - 命令行参数：拼接为一条字幕
  - --input 指定的文件：SRT、WebVTT 或纯文本（每行一条）
  - 管道输入的标准输入

用法示例：
  segmenter "The storm knocked out power. Everyone gathered at the church."
  segmenter --format box --box-width 36 "今天晚上我们一起去看电影吧，听说这部片子的评价非常好。"
  segmenter -i movie.srt -o movie.segmented.srt
  cat episode.vtt | segmenter --format json`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.cfgFile, "config", "", "配置文件路径（默认 $HOME/.segmenter.yaml）")
	flags.StringVarP(&opts.inputFile, "input", "i", "", "输入字幕文件")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "输出文件（默认标准输出）")
	flags.StringVarP(&opts.format, "format", "f", outputPlain, "输出格式: "+strings.Join(outputFormats, "|"))
	flags.StringVar(&opts.encoding, "encoding", "", "输入文件编码（默认取配置，auto 为自动检测）")
	flags.BoolVar(&opts.debug, "debug", false, "启用调试模式")
	flags.BoolVar(&opts.verbose, "verbose", false, "显示详细日志")
	flags.BoolVar(&opts.showConfig, "show-config", false, "显示当前配置")
	flags.StringVar(&opts.saveConfig, "save-config", "", "把当前生效的配置写入文件后退出（空路径为 $HOME/.segmenter.yaml）")
	flags.BoolVar(&opts.noColor, "no-color", false, "禁用彩色输出")
	flags.BoolVar(&opts.force, "force", false, "未超出显示框也执行分行")
	flags.IntVar(&opts.boxWidth, "box-width", 0, "字幕框宽度（显示单元格，默认取配置）")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "并行处理的字幕条数（默认取配置）")

	return rootCmd
}

func run(cmd *cobra.Command, args []string, opts *rootOptions) error {
	if !isOutputFormat(opts.format) {
		return fmt.Errorf("unknown output format %q, expected one of %s", opts.format, strings.Join(outputFormats, ", "))
	}
	if opts.noColor {
		color.NoColor = true
		pterm.DisableStyling()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithOptions(cfg.Debug, cfg.Verbose, !opts.noColor)
	defer func() {
		_ = log.Sync()
	}()

	if opts.showConfig {
		return renderConfig(cmd.OutOrStdout(), cfg)
	}
	if cmd.Flags().Changed("save-config") {
		if err := config.SaveConfig(cfg, opts.saveConfig); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		log.Info("config saved", zap.String("path", opts.saveConfig))
		return nil
	}

	engineCfg, err := cfg.SegmentConfig()
	if err != nil {
		return err
	}
	seg, err := segment.NewSegmenter(engineCfg, segment.WithLogger(log))
	if err != nil {
		return err
	}
	box := layout.Box{Width: cfg.BoxWidth, Threshold: cfg.DisplayThreshold}

	if len(args) > 0 {
		text := strings.Join(args, " ")
		log.Debug("segmenting text from arguments", zap.Int("length", len([]rune(text))))
		return writeOutput(cmd, opts, func(w io.Writer) error {
			return renderLine(w, segmentLine(seg, box, text, opts.force), opts.format, cfg.BoxWidth)
		})
	}

	return runDocument(cmd, opts, cfg, seg, box, log)
}

// loadConfig 加载配置并应用命令行覆盖
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("box-width") {
		cfg.BoxWidth = opts.boxWidth
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("encoding") {
		cfg.InputEncoding = opts.encoding
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isOutputFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// lineResult 单条文本的分行结果
type lineResult struct {
	Input     string               `json:"input"`
	Tier      string               `json:"tier"`
	Protected int                  `json:"protected"`
	Lines     []layout.LineMetrics `json:"lines"`
}

// tierFitsBox 文本未超出显示框，没有交给分行引擎
const tierFitsBox = "fits_box"

func segmentLine(seg *segment.Segmenter, box layout.Box, text string, force bool) lineResult {
	if !force && !box.NeedsSegmentation(text) {
		return lineResult{Input: text, Tier: tierFitsBox, Lines: layout.Measure([]string{text})}
	}
	res := seg.Analyze(text)
	return lineResult{
		Input:     text,
		Tier:      res.Tier.String(),
		Protected: res.Protected,
		Lines:     layout.Measure(res.Segments),
	}
}
