package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Source is one request file held in memory for repeated parsing
type Source struct {
	Name    string
	Content string
}

// LoadSources reads the named files
func LoadSources(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, Source{Name: path, Content: string(data)})
	}
	return sources, nil
}

// Runner executes a benchmark run
type Runner struct {
	config  *Config
	metrics *Metrics
	limiter *rate.Limiter
	options []parser.Option
	sources []Source

	next atomic.Int64
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithParserOptions sets the options every parse uses
func WithParserOptions(opts ...parser.Option) RunnerOption {
	return func(r *Runner) {
		r.options = opts
	}
}

// NewRunner creates a runner over the given sources
func NewRunner(config *Config, sources []Source, opts ...RunnerOption) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New("no sources to parse")
	}

	r := &Runner{
		config:  config,
		metrics: NewMetrics(),
		sources: sources,
	}
	if config.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.Rate), 1)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run parses the sources until the duration elapses, the iteration count is
// reached or ctx is cancelled, and returns the summary.
func (r *Runner) Run(ctx context.Context) *Summary {
	if r.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Duration)
		defer cancel()
	}

	r.metrics.Start()

	var wg sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.work(ctx)
		}()
	}
	wg.Wait()

	r.metrics.Stop()

	summary := r.metrics.GetSummary()
	summary.RunID = uuid.New().String()
	summary.Workers = r.config.Workers
	if r.config.Thresholds.HasThresholds() {
		summary.Thresholds = EvaluateThresholds(summary, r.config.Thresholds)
	}
	return summary
}

func (r *Runner) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n := r.next.Add(1)
		if r.config.Iterations > 0 && n > r.config.Iterations {
			return
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
		}

		src := r.sources[(n-1)%int64(len(r.sources))]
		start := time.Now()
		doc, err := parser.Parse(src.Content, src.Name, r.options...)
		elapsed := time.Since(start)

		diagnostics := 0
		if doc != nil {
			diagnostics = len(doc.Diagnostics)
		}
		r.metrics.Record(src.Name, len(src.Content), elapsed, diagnostics, err != nil)
	}
}
