package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insurawise/internal/classify"
	"github.com/sells-group/insurawise/internal/config"
	"github.com/sells-group/insurawise/internal/export"
	"github.com/sells-group/insurawise/internal/intake"
	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/ocr"
	"github.com/sells-group/insurawise/internal/reconcile"
	"github.com/sells-group/insurawise/internal/resilience"
	"github.com/sells-group/insurawise/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document processing HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initService(ctx, cfg, serviceOpts{Documents: true, Store: true})
		if err != nil {
			return err
		}
		defer env.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           newRouter(env.Service, cfg.Server),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// api serves the HTTP endpoints over an intake service.
type api struct {
	svc       *intake.Service
	maxUpload int64
}

// newRouter builds the chi router with CORS and request logging.
func newRouter(svc *intake.Service, sc config.ServerConfig) http.Handler {
	a := &api{svc: svc, maxUpload: sc.MaxUploadMB << 20}
	if a.maxUpload <= 0 {
		a.maxUpload = 20 << 20
	}

	origins := sc.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", a.handleRoot)
	r.Get("/health", a.handleHealth)
	r.Post("/process-pdf/", a.handleProcessPDF)
	r.Post("/normalize", a.handleNormalize)
	r.Post("/submit-policy/", a.handleSubmitPolicy)
	r.Get("/policies", a.handleListPolicies)
	r.Get("/documents", a.handleListDocuments)
	r.Get("/documents/export", a.handleExportDocuments)
	r.Get("/documents/{id}", a.handleGetDocument)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (a *api) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "InsuraWise Insurance API",
		"endpoints": map[string]string{
			"health":        "/health",
			"process_pdf":   "/process-pdf/",
			"normalize":     "/normalize",
			"submit_policy": "/submit-policy/",
			"policies":      "/policies",
			"documents":     "/documents",
		},
		"product_types": model.Categories(),
	})
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleProcessPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	cat, err := model.ParseCategory(r.FormValue("product_type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "pdf_file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, ocr.ErrNotPDF.Error())
		return
	}

	path, err := spool(file)
	if err != nil {
		zap.L().Error("spool upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer os.Remove(path) //nolint:errcheck

	res, err := a.svc.Process(r.Context(), intake.Request{
		Category: cat,
		Filename: header.Filename,
		Path:     path,
		Save:     a.svc.Store() != nil,
	})
	if err != nil {
		a.fail(w, "process pdf", err)
		return
	}

	env, err := newEnvelope("PDF processed successfully", res.Outcome)
	if err != nil {
		a.fail(w, "process pdf", err)
		return
	}
	env.DocumentID = res.DocumentID
	writeJSON(w, http.StatusOK, env)
}

// spool copies an upload to a temporary file and returns its path.
func spool(src io.Reader) (string, error) {
	f, err := os.CreateTemp("", "insurawise-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "create temp file")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()           //nolint:errcheck
		os.Remove(f.Name()) //nolint:errcheck
		return "", eris.Wrap(err, "write temp file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name()) //nolint:errcheck
		return "", eris.Wrap(err, "close temp file")
	}
	return f.Name(), nil
}

// normalizeRequest carries classifier output as either the raw reply text
// (a JSON string) or an already decoded object.
type normalizeRequest struct {
	ProductType string          `json:"product_type"`
	Payload     json.RawMessage `json:"payload"`
}

func (a *api) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := model.ParseCategory(req.ProductType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var out model.Outcome
	switch p := strings.TrimSpace(string(req.Payload)); {
	case strings.HasPrefix(p, `"`):
		var text string
		if err := json.Unmarshal(req.Payload, &text); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		out, err = a.svc.Normalize(r.Context(), cat, text)
	case strings.HasPrefix(p, "{"):
		var raw model.Raw
		if err := json.Unmarshal(req.Payload, &raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		out, err = a.svc.NormalizeRaw(r.Context(), cat, raw)
	default:
		writeError(w, http.StatusBadRequest, "payload must be a JSON object or string")
		return
	}
	if err != nil {
		a.fail(w, "normalize", err)
		return
	}

	env, err := newEnvelope("Payload normalized successfully", out)
	if err != nil {
		a.fail(w, "normalize", err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (a *api) handleSubmitPolicy(w http.ResponseWriter, r *http.Request) {
	var p model.Policy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.svc.SubmitPolicy(r.Context(), &p); err != nil {
		a.fail(w, "submit policy", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Policy stored successfully",
		"id":      p.ID,
	})
}

func (a *api) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	st := a.svc.Store()
	if st == nil {
		a.fail(w, "list policies", intake.ErrNoStore)
		return
	}
	limit, offset, err := paging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	policies, err := st.ListPolicies(r.Context(), store.PolicyFilter{
		VehicleType: r.URL.Query().Get("vehicle_type"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		a.fail(w, "list policies", err)
		return
	}
	if policies == nil {
		policies = []model.Policy{}
	}
	writeJSON(w, http.StatusOK, policies)
}

func (a *api) documents(w http.ResponseWriter, r *http.Request) ([]model.Document, bool) {
	st := a.svc.Store()
	if st == nil {
		a.fail(w, "list documents", intake.ErrNoStore)
		return nil, false
	}
	limit, offset, err := paging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	q := r.URL.Query()
	filter, err := parseDocumentFilter(q.Get("category"), q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	docs, err := st.ListDocuments(r.Context(), filter)
	if err != nil {
		a.fail(w, "list documents", err)
		return nil, false
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, true
}

func (a *api) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if docs, ok := a.documents(w, r); ok {
		writeJSON(w, http.StatusOK, docs)
	}
}

func (a *api) handleExportDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := a.documents(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	if err := export.WriteSummaryXLSX(w, docs); err != nil {
		zap.L().Error("export documents failed", zap.Error(err))
	}
}

func (a *api) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	st := a.svc.Store()
	if st == nil {
		a.fail(w, "get document", intake.ErrNoStore)
		return
	}
	doc, err := st.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func paging(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, eris.Errorf("invalid limit %q", v)
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, eris.Errorf("invalid offset %q", v)
		}
	}
	return limit, offset, nil
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, ocr.ErrNotPDF):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, intake.ErrTooManyPages):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, intake.ErrInvalidPolicy),
		errors.Is(err, ocr.ErrNoText),
		errors.Is(err, classify.ErrEmptyText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrUnparsablePayload):
		return http.StatusBadGateway
	case errors.Is(err, intake.ErrNoStore),
		errors.Is(err, resilience.ErrBreakerOpen):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (a *api) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error(op+" failed", zap.Error(err))
	} else {
		zap.L().Info(op+" rejected", zap.Int("status", code), zap.Error(err))
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeError(w, code, msg)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
