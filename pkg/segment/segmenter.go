// Package segment 字幕分行引擎
//
// 给定一行字幕文本，决定是否以及如何把它拆成最多两行显示，且不会拆开单词、缩写、
// 小数、引号片段或省略号。引擎是纯函数：相同输入总得到相同输出，调用之间不保留状态。
package segment

import (
	"strings"

	"go.uber.org/zap"
)

// Tier 产生结果的层级
type Tier int

const (
	TierShortCircuit Tier = iota
	TierSentence
	TierPhrase
	TierWrap
	TierFallback
	TierRecovered
)

// String 返回层级名称
func (t Tier) String() string {
	switch t {
	case TierShortCircuit:
		return "short_circuit"
	case TierSentence:
		return "sentence"
	case TierPhrase:
		return "phrase"
	case TierWrap:
		return "wrap"
	case TierFallback:
		return "fallback"
	case TierRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Result 切分结果
type Result struct {
	// Segments 按显示顺序排列的 1 到 2 行
	Segments []string
	// Tier 产生结果的层级
	Tier Tier
	// Protected 本次调用保护的片段数量
	Protected int
}

// Config 切分引擎配置
type Config struct {
	ShortCircuitLength int     `json:"short_circuit_length"` // 不超过此长度直接原样返回
	WrapThreshold      int     `json:"wrap_threshold"`       // 受保护文本超过此长度才尝试按词折行
	MaxLineLength      int     `json:"max_line_length"`      // 折行时每行最大长度
	PhraseMinLength    int     `json:"phrase_min_length"`    // 分句切出多段时每段的最小长度
	MinSegmentLength   int     `json:"min_segment_length"`   // 质量评估中的短片段阈值
	ShortSegmentRatio  float64 `json:"short_segment_ratio"`  // 短片段占比上限
	BalanceMinRatio    float64 `json:"balance_min_ratio"`    // 长度均衡下限
	BalanceMaxRatio    float64 `json:"balance_max_ratio"`    // 长度均衡上限

	ProtectURLs        bool     `json:"protect_urls"`
	ProtectEmails      bool     `json:"protect_emails"`
	ProtectFilePaths   bool     `json:"protect_file_paths"`
	ExtraAbbreviations []string `json:"extra_abbreviations"` // 额外的缩写（不含结尾的点）
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		ShortCircuitLength: 50,
		WrapThreshold:      80,
		MaxLineLength:      40,
		PhraseMinLength:    15,
		MinSegmentLength:   8,
		ShortSegmentRatio:  0.3,
		BalanceMinRatio:    0.3,
		BalanceMaxRatio:    2.0,
		ProtectURLs:        true,
		ProtectEmails:      true,
		ProtectFilePaths:   true,
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	switch {
	case c.ShortCircuitLength < 0:
		return configError("short_circuit_length must be >= 0, got %d", c.ShortCircuitLength)
	case c.WrapThreshold < 0:
		return configError("wrap_threshold must be >= 0, got %d", c.WrapThreshold)
	case c.MaxLineLength <= 0:
		return configError("max_line_length must be > 0, got %d", c.MaxLineLength)
	case c.PhraseMinLength < 0:
		return configError("phrase_min_length must be >= 0, got %d", c.PhraseMinLength)
	case c.MinSegmentLength < 0:
		return configError("min_segment_length must be >= 0, got %d", c.MinSegmentLength)
	case c.ShortSegmentRatio < 0 || c.ShortSegmentRatio > 1:
		return configError("short_segment_ratio must be within [0, 1], got %g", c.ShortSegmentRatio)
	case c.BalanceMinRatio < 0 || c.BalanceMinRatio > 1:
		return configError("balance_min_ratio must be within [0, 1], got %g", c.BalanceMinRatio)
	case c.BalanceMaxRatio < 1:
		return configError("balance_max_ratio must be >= 1, got %g", c.BalanceMaxRatio)
	}
	return nil
}

// Option 切分引擎选项
type Option func(*Segmenter)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(s *Segmenter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEvaluator 替换默认的质量评估器
func WithEvaluator(evaluator Evaluator) Option {
	return func(s *Segmenter) {
		if evaluator != nil {
			s.evaluator = evaluator
		}
	}
}

// Segmenter 字幕切分引擎
//
// 构建后不可变，可在多个 goroutine 中并发调用。
type Segmenter struct {
	config    Config
	protector *Protector
	evaluator Evaluator
	logger    *zap.Logger
}

// NewSegmenter 创建切分引擎
func NewSegmenter(config Config, opts ...Option) (*Segmenter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Segmenter{
		config: config,
		protector: NewProtector(ProtectorOptions{
			ProtectURLs:        config.ProtectURLs,
			ProtectEmails:      config.ProtectEmails,
			ProtectFilePaths:   config.ProtectFilePaths,
			ExtraAbbreviations: config.ExtraAbbreviations,
		}),
		evaluator: QualityEvaluator{
			MinSegmentLength:  config.MinSegmentLength,
			ShortSegmentRatio: config.ShortSegmentRatio,
			BalanceMinRatio:   config.BalanceMinRatio,
			BalanceMaxRatio:   config.BalanceMaxRatio,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config 返回引擎配置
func (s *Segmenter) Config() Config {
	return s.config
}

var defaultSegmenter = func() *Segmenter {
	s, err := NewSegmenter(DefaultConfig())
	if err != nil {
		panic("default segmenter config is invalid: " + err.Error())
	}
	return s
}()

// Segment 使用默认配置切分文本
func Segment(text string) []string {
	return defaultSegmenter.Segment(text)
}

// Segment 把文本切成 1 到 2 行
func (s *Segmenter) Segment(text string) []string {
	return s.Analyze(text).Segments
}

// Analyze 切分文本并返回产生结果的层级
//
// 任何内部失败都会被恢复，此时原样返回输入，不会丢失字符。
func (s *Segmenter) Analyze(text string) (result Result) {
	if runeLen(text) <= s.config.ShortCircuitLength {
		return Result{Segments: []string{text}, Tier: TierShortCircuit}
	}

	stage := StageProtect
	defer func() {
		if r := recover(); r != nil {
			err := &SegmentationError{Stage: stage, Value: r}
			s.logger.Warn("segmentation failed, returning input unchanged",
				zap.String("stage", string(stage)),
				zap.Int("length", runeLen(text)),
				zap.Error(err))
			result = Result{Segments: []string{text}, Tier: TierRecovered}
		}
	}()

	return s.run(text, &stage)
}

func (s *Segmenter) run(text string, stage *Stage) Result {
	table := s.protector.Protect(text)
	protected := table.Text

	*stage = StageSentence
	if res, ok := s.attempt(TierSentence, SplitSentences(protected), table); ok {
		return res
	}

	*stage = StagePhrase
	if res, ok := s.attempt(TierPhrase, SplitPhrases(protected, s.config.PhraseMinLength), table); ok {
		return res
	}

	if runeLen(protected) > s.config.WrapThreshold {
		*stage = StageWrap
		if res, ok := s.attempt(TierWrap, WrapWords(protected, s.config.MaxLineLength), table); ok {
			return res
		}
	}

	*stage = StageRestore
	restored := strings.TrimSpace(table.Restore(protected))
	if restored == "" {
		return Result{Segments: []string{text}, Tier: TierFallback}
	}
	return Result{Segments: []string{restored}, Tier: TierFallback, Protected: table.Len()}
}

// attempt 评估一个候选切分，接受时还原占位符
func (s *Segmenter) attempt(tier Tier, candidate []string, table *ProtectionTable) (Result, bool) {
	if len(candidate) < 2 {
		return Result{}, false
	}
	if len(candidate) > MaxSegments || !s.evaluator.Accept(candidate) {
		s.logger.Debug("candidate split rejected",
			zap.Stringer("tier", tier),
			zap.Int("segments", len(candidate)))
		return Result{}, false
	}

	segments := make([]string, 0, len(candidate))
	for _, c := range candidate {
		if restored := strings.TrimSpace(table.Restore(c)); restored != "" {
			segments = append(segments, restored)
		}
	}
	if len(segments) == 0 {
		return Result{}, false
	}

	s.logger.Debug("candidate split accepted",
		zap.Stringer("tier", tier),
		zap.Int("segments", len(segments)),
		zap.Int("protected", table.Len()))
	return Result{Segments: segments, Tier: tier, Protected: table.Len()}, true
}
