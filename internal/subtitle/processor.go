package subtitle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/layout"
	"github.com/nerdneilsfield/go-subtitle-segmenter/internal/logger"
	"github.com/nerdneilsfield/go-subtitle-segmenter/pkg/segment"
)

// ProgressFunc 进度回调，调用是串行的
type ProgressFunc func(done, total int)

// Report 一次处理的统计
type Report struct {
	JobID     string
	Cues      int
	Segmented int // 被拆成两行的条数
	Skipped   int // 未交给分行引擎的条数
	Tiers     map[segment.Tier]int
	Duration  time.Duration
}

// Processor 对文档中的每条字幕执行分行
type Processor struct {
	segmenter   *segment.Segmenter
	box         layout.Box
	concurrency int
	force       bool
	progress    ProgressFunc
	logger      logger.Logger
}

// ProcessorOption 处理器选项
type ProcessorOption func(*Processor)

// WithConcurrency 设置并行处理的条数
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithForce 不论是否超出显示框都执行分行
func WithForce(force bool) ProcessorOption {
	return func(p *Processor) { p.force = force }
}

// WithProgress 设置进度回调
func WithProgress(fn ProgressFunc) ProcessorOption {
	return func(p *Processor) { p.progress = fn }
}

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor 创建处理器
func NewProcessor(segmenter *segment.Segmenter, box layout.Box, opts ...ProcessorOption) *Processor {
	p := &Processor{
		segmenter:   segmenter,
		box:         box,
		concurrency: 4,
		logger:      logger.NewZapLogger(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process 原地更新文档中需要分行的字幕
//
// 只有超出显示框的字幕才交给分行引擎，结果替换该条的全部文本行。
// ctx 取消后不再开始新的条目，已完成的修改保留。
func (p *Processor) Process(ctx context.Context, doc *Document) (*Report, error) {
	start := time.Now()
	report := &Report{
		JobID: uuid.NewString(),
		Cues:  len(doc.Cues),
		Tiers: make(map[segment.Tier]int),
	}
	log := p.logger.With(zap.String("job_id", report.JobID))
	log.Info("processing subtitles",
		zap.Stringer("format", doc.Format),
		zap.Int("cues", report.Cues),
		zap.Int("concurrency", p.concurrency))

	tiers := make([]segment.Tier, len(doc.Cues))
	processed := make([]bool, len(doc.Cues))

	var mu sync.Mutex
	done := 0
	advance := func() {
		if p.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		p.progress(done, len(doc.Cues))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, cue := range doc.Cues {
		i, cue := i, cue
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer advance()

			text := cue.Text()
			if !p.force && !p.box.NeedsSegmentation(text) {
				return nil
			}
			res := p.segmenter.Analyze(text)
			cue.Lines = res.Segments
			tiers[i] = res.Tier
			processed[i] = true
			log.Debug("cue segmented",
				zap.Int("cue", i),
				zap.Stringer("tier", res.Tier),
				zap.Int("lines", len(res.Segments)))
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	for i, ok := range processed {
		if !ok {
			report.Skipped++
			continue
		}
		report.Tiers[tiers[i]]++
		if len(doc.Cues[i].Lines) > 1 {
			report.Segmented++
		}
	}
	report.Duration = time.Since(start)

	if err != nil {
		log.Warn("processing interrupted", zap.Error(err))
		return report, err
	}
	log.Info("processing finished",
		zap.Int("segmented", report.Segmented),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))
	return report, nil
}
