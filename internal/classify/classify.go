// Package classify turns OCR text into the classifier JSON consumed by the
// reconciliation pipeline.
package classify

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/resilience"
	"github.com/sells-group/insurawise/pkg/anthropic"
)

// ErrEmptyText is returned when there is nothing to classify.
var ErrEmptyText = eris.New("classify: empty document text")

// Classifier produces the raw classifier text for a document.
type Classifier interface {
	Classify(ctx context.Context, cat model.Category, text string) (string, error)
}

// Options configures an Anthropic classifier.
type Options struct {
	Model             string
	MaxTokens         int64
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int
	Timeout           time.Duration
	DefaultState      string
}

// Anthropic classifies documents with Claude.
type Anthropic struct {
	client  anthropic.Client
	opts    Options
	limiter *rate.Limiter
	backoff resilience.Backoff
	breaker *resilience.Breaker
}

// NewAnthropic creates a classifier. A non-positive RequestsPerSecond
// disables throttling.
func NewAnthropic(client anthropic.Client, opts Options) *Anthropic {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 8192
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	backoff := resilience.DefaultBackoff()
	backoff.Attempts = opts.MaxAttempts
	backoff.OnRetry = resilience.LogRetry("anthropic", "classify")

	return &Anthropic{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.Burst),
		backoff: backoff,
		breaker: resilience.NewBreaker("anthropic", 5, 30*time.Second),
	}
}

// Classify sends text to the model and returns its reply.
func (a *Anthropic) Classify(ctx context.Context, cat model.Category, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	prompt, err := BuildPrompt(cat, a.opts.DefaultState, text)
	if err != nil {
		return "", err
	}

	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       a.opts.Model,
		MaxTokens:   a.opts.MaxTokens,
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: &temp,
	}

	resp, err := resilience.Retry(ctx, a.backoff, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return resilience.Call(ctx, a.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			if a.opts.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
				defer cancel()
			}
			return a.client.CreateMessage(ctx, req)
		})
	})
	if err != nil {
		return "", eris.Wrapf(err, "classify: %s", cat)
	}

	resp.Usage.Log(a.opts.Model, cat.String())
	if resp.StopReason == "max_tokens" {
		zap.L().Warn("classifier reply truncated",
			zap.String("category", cat.String()),
			zap.Int64("max_tokens", a.opts.MaxTokens),
		)
	}

	return resp.Text(), nil
}
