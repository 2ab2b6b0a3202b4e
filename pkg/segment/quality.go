package segment

import "strings"

// MaxSegments 界面最多显示两行
const MaxSegments = 2

// Evaluator 候选切分的质量评估器
type Evaluator interface {
	Accept(segments []string) bool
}

// QualityEvaluator 基于行数、短片段比例、连字符和长度均衡的评估器
type QualityEvaluator struct {
	// MinSegmentLength 短于此长度的片段计为短片段
	MinSegmentLength int
	// ShortSegmentRatio 短片段占比上限
	ShortSegmentRatio float64
	// BalanceMinRatio 与平均长度之比的下限
	BalanceMinRatio float64
	// BalanceMaxRatio 与平均长度之比的上限
	BalanceMaxRatio float64
}

// DefaultQualityEvaluator 返回默认阈值的评估器
func DefaultQualityEvaluator() QualityEvaluator {
	return QualityEvaluator{
		MinSegmentLength:  8,
		ShortSegmentRatio: 0.3,
		BalanceMinRatio:   0.3,
		BalanceMaxRatio:   2.0,
	}
}

// Accept 判断候选切分是否可用，所有规则都通过才接受
func (q QualityEvaluator) Accept(segments []string) bool {
	if len(segments) <= 1 {
		return true
	}
	if len(segments) > MaxSegments {
		return false
	}

	lengths := make([]int, len(segments))
	short := 0
	total := 0
	for i, s := range segments {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasSuffix(trimmed, "-") {
			return false
		}
		lengths[i] = runeLen(trimmed)
		if lengths[i] < q.MinSegmentLength {
			short++
		}
		total += lengths[i]
	}

	if float64(short) > q.ShortSegmentRatio*float64(len(segments)) {
		return false
	}

	avg := float64(total) / float64(len(segments))
	for _, l := range lengths {
		if float64(l) < q.BalanceMinRatio*avg || float64(l) > q.BalanceMaxRatio*avg {
			return false
		}
	}
	return true
}
