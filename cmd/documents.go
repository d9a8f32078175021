package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insurawise/internal/export"
	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/store"
)

var (
	docCategory string
	docStatus   string
	docLimit    int
	docOffset   int
	docOutput   string
	docOut      string
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Inspect and export processed documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			filter, err := documentFilter()
			if err != nil {
				return err
			}
			docs, err := st.ListDocuments(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if docs == nil {
				docs = []model.Document{}
			}
			return writeOutput(cmd.OutOrStdout(), docOutput, docs)
		})
	},
}

var documentsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one processed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			doc, err := st.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), docOutput, doc)
		})
	},
}

var documentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the summary records of processed documents to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store) error {
			filter, err := documentFilter()
			if err != nil {
				return err
			}
			docs, err := st.ListDocuments(cmd.Context(), filter)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if docOut != "" && docOut != "-" {
				f, err := os.Create(docOut)
				if err != nil {
					return eris.Wrapf(err, "create %s", docOut)
				}
				defer f.Close() //nolint:errcheck
				w = f
			}
			if err := export.WriteSummaryXLSX(w, docs); err != nil {
				return err
			}
			zap.L().Info("documents exported", zap.Int("documents", len(docs)), zap.String("out", docOut))
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{documentsListCmd, documentsExportCmd} {
		c.Flags().StringVar(&docCategory, "category", "", "filter by product type")
		c.Flags().StringVar(&docStatus, "status", "", "filter by status: validated or degraded")
		c.Flags().IntVar(&docLimit, "limit", 0, "max rows (default 100)")
		c.Flags().IntVar(&docOffset, "offset", 0, "rows to skip")
	}
	documentsExportCmd.Flags().StringVar(&docOut, "out", "documents.xlsx", "output workbook, - for stdout")

	documentsCmd.PersistentFlags().StringVar(&docOutput, "output", "json", "output format: json or yaml")
	documentsCmd.AddCommand(documentsListCmd, documentsShowCmd, documentsExportCmd)
	rootCmd.AddCommand(documentsCmd)
}

func withStore(ctx context.Context, fn func(store.Store) error) error {
	if err := cfg.Validate("store"); err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return eris.Wrap(err, "open store")
	}
	defer st.Close() //nolint:errcheck
	return fn(st)
}

func documentFilter() (store.DocumentFilter, error) {
	return parseDocumentFilter(docCategory, docStatus, docLimit, docOffset)
}

func parseDocumentFilter(category, status string, limit, offset int) (store.DocumentFilter, error) {
	filter := store.DocumentFilter{Limit: limit, Offset: offset}
	if category != "" {
		cat, err := model.ParseCategory(category)
		if err != nil {
			return filter, err
		}
		filter.Category = cat
	}
	switch s := model.Status(strings.ToLower(strings.TrimSpace(status))); s {
	case "":
	case model.StatusValidated, model.StatusDegraded:
		filter.Status = s
	default:
		return filter, eris.Errorf("unknown status %q", status)
	}
	return filter, nil
}
