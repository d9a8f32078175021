package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insurawise/internal/intake"
	"github.com/sells-group/insurawise/internal/model"
)

var (
	processCategory string
	processFile     string
	processSave     bool
	processOutput   string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract, classify and reconcile a single policy PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("process"); err != nil {
			return err
		}
		if processSave {
			if err := cfg.Validate("store"); err != nil {
				return err
			}
		}
		cat, err := model.ParseCategory(processCategory)
		if err != nil {
			return err
		}

		env, err := initService(ctx, cfg, serviceOpts{Documents: true, Store: processSave})
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Service.Process(ctx, intake.Request{
			Category: cat,
			Filename: filepath.Base(processFile),
			Path:     processFile,
			Save:     processSave,
		})
		if err != nil {
			zap.L().Error("process failed", zap.String("file", processFile), zap.Error(err))
			return err
		}

		doc, err := newEnvelope("PDF processed successfully", res.Outcome)
		if err != nil {
			return err
		}
		doc.DocumentID = res.DocumentID
		return writeOutput(cmd.OutOrStdout(), processOutput, doc)
	},
}

func init() {
	processCmd.Flags().StringVar(&processCategory, "category", "", "product type: CAR, BIKE or HEALTH (required)")
	processCmd.Flags().StringVar(&processFile, "file", "", "policy PDF (required)")
	processCmd.Flags().BoolVar(&processSave, "save", false, "store the result")
	processCmd.Flags().StringVar(&processOutput, "output", "json", "output format: json or yaml")
	_ = processCmd.MarkFlagRequired("category")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}
