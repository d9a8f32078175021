package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/classify"
	"github.com/sells-group/insurawise/internal/config"
	"github.com/sells-group/insurawise/internal/intake"
	"github.com/sells-group/insurawise/internal/ocr"
	"github.com/sells-group/insurawise/internal/reconcile"
	"github.com/sells-group/insurawise/internal/store"
	"github.com/sells-group/insurawise/pkg/anthropic"
)

// serviceEnv holds the intake service and the resources it owns.
type serviceEnv struct {
	Service *intake.Service
	Store   store.Store
}

// Close releases resources held by the environment.
func (e *serviceEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// serviceOpts selects which collaborators initService builds.
type serviceOpts struct {
	Documents bool // OCR and classifier
	Store     bool
}

func newPipeline(c *config.Config) (*reconcile.Pipeline, error) {
	pipe, err := reconcile.NewPipeline(reconcile.Options{
		DefaultState: c.Normalize.DefaultState,
		FallbackGST:  c.Normalize.FallbackGSTPercent,
	})
	if err != nil {
		return nil, eris.Wrap(err, "build pipeline")
	}
	return pipe, nil
}

func newClassifier(c *config.Config) classify.Classifier {
	client := anthropic.NewClient(c.Anthropic.Key)
	return classify.NewAnthropic(client, classify.Options{
		Model:             c.Anthropic.Model,
		MaxTokens:         c.Anthropic.MaxTokens,
		RequestsPerSecond: c.Classifier.RequestsPerSecond,
		Burst:             c.Classifier.Burst,
		MaxAttempts:       c.Classifier.MaxAttempts,
		Timeout:           time.Duration(c.Classifier.TimeoutSecs) * time.Second,
		DefaultState:      c.Normalize.DefaultState,
	})
}

// initService builds the intake service from configuration. Callers should
// defer env.Close().
func initService(ctx context.Context, c *config.Config, opts serviceOpts) (*serviceEnv, error) {
	pipe, err := newPipeline(c)
	if err != nil {
		return nil, err
	}

	var (
		ext ocr.Extractor
		cls classify.Classifier
	)
	if opts.Documents {
		ext, err = ocr.NewExtractor(c.OCR)
		if err != nil {
			return nil, eris.Wrap(err, "build extractor")
		}
		cls = newClassifier(c)
	}

	env := &serviceEnv{}
	if opts.Store {
		env.Store, err = store.Open(ctx, c.Store)
		if err != nil {
			return nil, eris.Wrap(err, "open store")
		}
	}

	env.Service = intake.New(ext, cls, pipe, env.Store, c.OCR.MaxPages)
	return env, nil
}
