package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/insurawise/internal/config"
	"github.com/sells-group/insurawise/internal/intake"
	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/ocr/ocrtest"
	"github.com/sells-group/insurawise/internal/reconcile"
	"github.com/sells-group/insurawise/internal/store"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return s.text, s.err
}

type stubClassifier struct {
	reply string
	err   error
}

func (s stubClassifier) Classify(ctx context.Context, cat model.Category, text string) (string, error) {
	return s.reply, s.err
}

const carReply = "```json\n" + `{"Coverton imp_keys": {
	"insuranceCompany": "Acko General",
	"category": "car",
	"subProduct": "car",
	"policyno": "VP-77",
	"firstName": "Priya",
	"lastName": "Raman",
	"phoneNo": "98400-12345",
	"emailId": "priya@example.in",
	"lane2": "4 Temple Road, Adyar, Chennai, 600020",
	"commenceMentDate": "15/03/2024",
	"policyEndDate": "14-03-2025"
}}` + "\n```"

const degradedHealthReply = `{"medical_insurance": {"policy_details": {"policy_no": "POL1"}}}`

// newTestService wires a SQLite backed intake service around stub
// collaborators.
func newTestService(t *testing.T, ext stubExtractor, cls stubClassifier) (*intake.Service, store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pipe, err := reconcile.NewPipeline(reconcile.Options{})
	require.NoError(t, err)
	return intake.New(ext, cls, pipe, st, 10), st
}

func writePDF(t *testing.T, dir, name string, pages int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, ocrtest.PDF(pages), 0644))
	return path
}
