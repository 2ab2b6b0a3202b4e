package segment

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestSegmenter(t *testing.T, mutate func(*Config), opts ...Option) *Segmenter {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSegmenter(cfg, opts...)
	require.NoError(t, err)
	return s
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSegmentBehaviour(t *testing.T) {
	t.Run("Three CJK Sentences Stay Together", func(t *testing.T) {
		input := "这是第一句话。这是第二句话！这是第三句话？"
		assert.Equal(t, []string{input}, Segment(input))
	})

	t.Run("Trailing Ellipsis Is Kept", func(t *testing.T) {
		input := "Right, you're not even getting your honeymoon, God..."
		result := Segment(input)

		assert.Equal(t, input, strings.Join(result, " "))
		for _, seg := range result {
			if strings.Contains(seg, ".") {
				assert.Contains(t, seg, "...")
			}
		}
	})

	t.Run("Abbreviations Are Not Split", func(t *testing.T) {
		joined := strings.Join(Segment("Dr. Smith met with Mr. Johnson vs. the defendant."), " ")
		assert.Contains(t, joined, "Dr. Smith")
		assert.Contains(t, joined, "Mr. Johnson")
		assert.Contains(t, joined, "vs. the")
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Equal(t, []string{""}, Segment(""))
	})

	t.Run("Ellipsis Only", func(t *testing.T) {
		assert.Equal(t, []string{"..."}, Segment("..."))
	})

	t.Run("Short Input Keeps Whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"  hi  "}, Segment("  hi  "))
		assert.Equal(t, []string{"\thello\n"}, Segment("\thello\n"))
	})

	t.Run("Invalid UTF-8 Bytes Survive", func(t *testing.T) {
		input := "Invalid \xff bytes here in the middle. Then another sentence comes after the bad bytes."
		result := Segment(input)

		assert.Equal(t, []string{
			"Invalid \xff bytes here in the middle.",
			"Then another sentence comes after the bad bytes.",
		}, result)
		assert.Equal(t, input, strings.Join(result, " "))
	})
}

func TestSegmenterTiers(t *testing.T) {
	s := newTestSegmenter(t, nil)

	tests := []struct {
		name     string
		input    string
		expected []string
		tier     Tier
	}{
		{
			name:     "Short Circuit",
			input:    strings.Repeat("a", 50),
			expected: []string{strings.Repeat("a", 50)},
			tier:     TierShortCircuit,
		},
		{
			name:  "English Sentences",
			input: "The storm knocked out power across the valley. Everyone gathered at the old church.",
			expected: []string{
				"The storm knocked out power across the valley.",
				"Everyone gathered at the old church.",
			},
			tier: TierSentence,
		},
		{
			name:  "Abbreviation Before Boundary",
			input: "Dr. Smith arrived at the clinic before dawn. Mr. Jones was already waiting outside.",
			expected: []string{
				"Dr. Smith arrived at the clinic before dawn.",
				"Mr. Jones was already waiting outside.",
			},
			tier: TierSentence,
		},
		{
			name:  "CJK Sentences",
			input: "今天晚上我们一起去看电影吧，听说这部片子的评价非常好。明天早上还要早起去公司开会，所以真的不能太晚回家。",
			expected: []string{
				"今天晚上我们一起去看电影吧，听说这部片子的评价非常好。",
				"明天早上还要早起去公司开会，所以真的不能太晚回家。",
			},
			tier: TierSentence,
		},
		{
			name:  "Clause Split",
			input: "When the lights finally came back on in the theater, nobody said a single word about it",
			expected: []string{
				"When the lights finally came back on in the theater,",
				"nobody said a single word about it",
			},
			tier: TierPhrase,
		},
		{
			name:  "Protected Spans Survive Restore",
			input: "Please visit https://example.com/docs today, or email help@example.org. Then wait a while for the reply.",
			expected: []string{
				"Please visit https://example.com/docs today, or email help@example.org.",
				"Then wait a while for the reply.",
			},
			tier: TierSentence,
		},
		{
			name:     "Three Lines Fall Back",
			input:    foxText,
			expected: []string{foxText},
			tier:     TierFallback,
		},
		{
			name:     "Whitespace Only",
			input:    strings.Repeat(" ", 60),
			expected: []string{strings.Repeat(" ", 60)},
			tier:     TierFallback,
		},
		{
			name:     "Fallback Trims",
			input:    "   " + strings.Repeat("b", 60) + "  ",
			expected: []string{strings.Repeat("b", 60)},
			tier:     TierFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Analyze(tt.input)
			assert.Equal(t, tt.expected, res.Segments)
			assert.Equal(t, tt.tier, res.Tier, "tier %s", res.Tier)
		})
	}
}

func TestSegmenterWrapTier(t *testing.T) {
	s := newTestSegmenter(t, func(c *Config) { c.MaxLineLength = 60 })

	res := s.Analyze(foxText)
	assert.Equal(t, TierWrap, res.Tier)
	assert.Equal(t, []string{
		"the quick brown fox jumps over the lazy dog and then keeps",
		"running far beyond the hills today",
	}, res.Segments)
}

func TestSegmenterProperties(t *testing.T) {
	inputs := []string{
		"",
		"short line",
		foxText,
		"Wait... what? No!! You can't be serious, the meeting was at 10:30 and it cost $3.50, right?",
		"He said \"I'm leaving now. Don't wait for me.\" and then he closed the door quietly behind him.",
		"Visit www.example.com/path?q=1. Then read notes/chapter-1.md before 9:00:00 tomorrow please.",
		"他说「我马上就到。」但是过了很久都没有人出现，大家只好先开始吃饭了。后来才知道他迷路了。",
		"Mr. and Mrs. Smith, Dr. Watson, Prof. Moriarty, and Sgt. Lestrade all met at St. Mary's that night.",
		strings.Repeat("word ", 60),
		strings.Repeat("超长的中文内容没有任何标点", 8),
		"\uE000ABBR_0\uE001 already looks like a placeholder. Then more text follows right after it.",
		"Tabs\tand\nnewlines mixed in. Another sentence starts here and keeps going for a while.",
		strings.Repeat("?!", 40),
		strings.Repeat(".", 120),
		strings.Repeat("😀", 60),
		"👋🏽 Hello 世界! Это смешанный текст, مرحبا بالعالم, and 🎉🎉 party time. Done here now!",
	}

	for _, input := range inputs {
		result := Segment(input)
		require.NotEmpty(t, result, "input %q", input)
		assert.LessOrEqual(t, len(result), MaxSegments, "input %q", input)
		assert.Equal(t, stripSpace(input), stripSpace(strings.Join(result, "")), "input %q", input)
		assert.Equal(t, result, Segment(input), "deterministic for %q", input)
	}
}

func TestSegmenterKeepsProtectedSpans(t *testing.T) {
	input := "Visit www.example.com/path?q=1. Then read notes/chapter-1.md before 9:00:00 tomorrow please."
	spans := []string{"www.example.com/path?q=1", "notes/chapter-1.md", "9:00:00"}

	result := Segment(input)
	for _, span := range spans {
		found := false
		for _, seg := range result {
			if strings.Contains(seg, span) {
				found = true
			}
		}
		assert.True(t, found, "span %q split across %q", span, result)
	}
}

func TestSegmenterLongInput(t *testing.T) {
	input := strings.Repeat("word, another. ", 134)
	require.GreaterOrEqual(t, len([]rune(input)), 2000)

	start := time.Now()
	result := Segment(input)
	assert.Less(t, time.Since(start), time.Second)
	assert.LessOrEqual(t, len(result), MaxSegments)

	for _, input := range []string{
		strings.Repeat("?!", 1000),
		strings.Repeat(".", 2100),
		strings.Repeat("🙂 混合 text, ", 200),
	} {
		start := time.Now()
		result := Segment(input)
		assert.Less(t, time.Since(start), time.Second)
		require.NotEmpty(t, result)
		assert.LessOrEqual(t, len(result), MaxSegments)
		assert.Equal(t, stripSpace(input), stripSpace(strings.Join(result, "")))
	}
}

func TestSegmenterConcurrent(t *testing.T) {
	s := newTestSegmenter(t, nil)
	inputs := []string{
		"The storm knocked out power across the valley. Everyone gathered at the old church.",
		"When the lights finally came back on in the theater, nobody said a single word about it",
		foxText,
	}
	expected := make([][]string, len(inputs))
	for i, input := range inputs {
		expected[i] = s.Segment(input)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				i := n % len(inputs)
				assert.Equal(t, expected[i], s.Segment(inputs[i]))
			}
		}()
	}
	wg.Wait()
}

type panicEvaluator struct{}

var errEvaluatorBroken = errors.New("evaluator broken")

func (panicEvaluator) Accept([]string) bool {
	panic(errEvaluatorBroken)
}

func TestSegmenterRecoversFromFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestSegmenter(t, nil, WithEvaluator(panicEvaluator{}), WithLogger(zap.New(core)))

	input := "The storm knocked out power across the valley. Everyone gathered at the old church."
	res := s.Analyze(input)

	assert.Equal(t, TierRecovered, res.Tier)
	assert.Equal(t, []string{input}, res.Segments)

	entries := logs.FilterMessage("segmentation failed, returning input unchanged").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sentence", fields["stage"])
	assert.EqualValues(t, len([]rune(input)), fields["length"])
}

func TestSegmentationError(t *testing.T) {
	err := &SegmentationError{Stage: StageWrap, Value: errEvaluatorBroken}
	assert.ErrorIs(t, err, ErrInternalSegmentation)
	assert.ErrorIs(t, err, errEvaluatorBroken)
	assert.Equal(t, "internal segmentation failure at stage 'wrap': evaluator broken", err.Error())

	plain := &SegmentationError{Stage: StagePhrase, Value: "index out of range"}
	assert.ErrorIs(t, plain, ErrInternalSegmentation)
	assert.Contains(t, plain.Error(), "index out of range")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Negative short circuit", func(c *Config) { c.ShortCircuitLength = -1 }},
		{"Zero line length", func(c *Config) { c.MaxLineLength = 0 }},
		{"Ratio above one", func(c *Config) { c.ShortSegmentRatio = 1.5 }},
		{"Balance min negative", func(c *Config) { c.BalanceMinRatio = -0.1 }},
		{"Balance max below one", func(c *Config) { c.BalanceMaxRatio = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewSegmenter(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "phrase", TierPhrase.String())
	assert.Equal(t, "recovered", TierRecovered.String())
	assert.Equal(t, "unknown", Tier(42).String())
}
