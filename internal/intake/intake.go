// Package intake runs an uploaded policy PDF through text extraction,
// classification and reconciliation, and records the result.
package intake

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/insurawise/internal/classify"
	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/normalize"
	"github.com/sells-group/insurawise/internal/ocr"
	"github.com/sells-group/insurawise/internal/reconcile"
	"github.com/sells-group/insurawise/internal/store"
)

// Sentinel errors.
var (
	ErrTooManyPages  = eris.New("intake: document exceeds page limit")
	ErrNoStore       = eris.New("intake: no store configured")
	ErrInvalidPolicy = eris.New("intake: invalid policy")
)

// Request describes one document to process.
type Request struct {
	Category model.Category
	Filename string
	Path     string
	Save     bool
}

// Result is the outcome of processing a document.
type Result struct {
	Outcome    model.Outcome
	DocumentID string
	Pages      int
	Elapsed    time.Duration
}

// Service wires the collaborators around the reconciliation pipeline. The
// extractor, classifier and store may be nil for callers that only
// normalize payloads.
type Service struct {
	extractor  ocr.Extractor
	classifier classify.Classifier
	pipeline   *reconcile.Pipeline
	store      store.Store
	maxPages   int
	validate   *validator.Validate
}

// New creates a Service. maxPages <= 0 disables the page limit.
func New(ext ocr.Extractor, cls classify.Classifier, pipe *reconcile.Pipeline, st store.Store, maxPages int) *Service {
	return &Service{
		extractor:  ext,
		classifier: cls,
		pipeline:   pipe,
		store:      st,
		maxPages:   maxPages,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Store returns the configured store, or nil.
func (s *Service) Store() store.Store { return s.store }

// Process extracts, classifies and reconciles the PDF at req.Path.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if s.extractor == nil || s.classifier == nil {
		return nil, eris.New("intake: extractor and classifier are required")
	}
	start := time.Now()
	log := zap.L().With(
		zap.String("filename", req.Filename),
		zap.String("category", req.Category.String()),
	)

	pages, err := s.inspect(req.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("pdf accepted", zap.Int("pages", pages))

	text, err := s.extractor.ExtractText(ctx, req.Path)
	if err != nil {
		return nil, eris.Wrap(err, "intake: extract text")
	}

	reply, err := s.classifier.Classify(ctx, req.Category, text)
	if err != nil {
		return nil, eris.Wrap(err, "intake: classify")
	}

	outcome, err := s.pipeline.Reconcile(ctx, req.Category, reply)
	if err != nil {
		return nil, eris.Wrap(err, "intake: reconcile")
	}

	res := &Result{Outcome: outcome, Pages: pages}
	if req.Save {
		id, err := s.saveDocument(ctx, req, pages, outcome)
		if err != nil {
			return nil, err
		}
		res.DocumentID = id
	}
	res.Elapsed = time.Since(start)

	log.Info("document processed",
		zap.String("status", string(outcome.Status)),
		zap.Int("pages", pages),
		zap.String("document_id", res.DocumentID),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (s *Service) inspect(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "intake: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	pages, err := ocr.InspectPDF(f)
	if err != nil {
		return 0, err
	}
	if s.maxPages > 0 && pages > s.maxPages {
		return 0, eris.Wrapf(ErrTooManyPages, "intake: %d pages, limit %d", pages, s.maxPages)
	}
	return pages, nil
}

func (s *Service) saveDocument(ctx context.Context, req Request, pages int, outcome model.Outcome) (string, error) {
	if s.store == nil {
		return "", ErrNoStore
	}
	payload, err := outcome.Payload()
	if err != nil {
		return "", eris.Wrap(err, "intake: build payload")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "intake: marshal payload")
	}

	doc := &model.Document{
		Filename:   req.Filename,
		Category:   req.Category,
		Status:     outcome.Status,
		Diagnostic: outcome.Diagnostic,
		Pages:      pages,
		Payload:    body,
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return "", eris.Wrap(err, "intake: save document")
	}
	return doc.ID, nil
}

// Normalize runs only the reconciliation pipeline on classifier output.
func (s *Service) Normalize(ctx context.Context, cat model.Category, payload string) (model.Outcome, error) {
	return s.pipeline.Reconcile(ctx, cat, payload)
}

// NormalizeRaw is Normalize for an already decoded payload.
func (s *Service) NormalizeRaw(ctx context.Context, cat model.Category, raw model.Raw) (model.Outcome, error) {
	return s.pipeline.ReconcileRaw(ctx, cat, raw)
}

// SubmitPolicy validates a manually entered policy, normalizes its dates
// and stores it.
func (s *Service) SubmitPolicy(ctx context.Context, p *model.Policy) error {
	if s.store == nil {
		return ErrNoStore
	}
	p.Name = normalize.CleanText(p.Name)
	p.Email = normalize.CleanText(p.Email)
	p.Insurer = normalize.CleanText(p.Insurer)
	p.PolicyNumber = normalize.CleanText(p.PolicyNumber)
	p.VehicleType = normalize.CleanText(p.VehicleType)
	for _, d := range []*string{&p.PolicyStartDate, &p.PolicyEndDate, &p.DateOfPolicy, &p.ExpiryDate} {
		*d = normalize.Date(normalize.CleanText(*d))
	}

	if err := s.validate.Struct(p); err != nil {
		return eris.Wrap(ErrInvalidPolicy, err.Error())
	}
	if err := s.store.SavePolicy(ctx, p); err != nil {
		return eris.Wrap(err, "intake: save policy")
	}
	zap.L().Info("policy stored", zap.String("policy_id", p.ID), zap.String("policy_number", p.PolicyNumber))
	return nil
}
