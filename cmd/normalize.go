package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/insurawise/internal/model"
)

var (
	normalizeCategory string
	normalizeFile     string
	normalizeOutput   string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Reconcile a saved classifier payload without calling any service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("normalize"); err != nil {
			return err
		}
		cat, err := model.ParseCategory(normalizeCategory)
		if err != nil {
			return err
		}

		var text []byte
		if normalizeFile == "-" {
			text, err = io.ReadAll(cmd.InOrStdin())
		} else {
			text, err = os.ReadFile(normalizeFile)
		}
		if err != nil {
			return eris.Wrapf(err, "read %s", normalizeFile)
		}

		env, err := initService(cmd.Context(), cfg, serviceOpts{})
		if err != nil {
			return err
		}
		defer env.Close()

		return runNormalize(cmd.Context(), env, cat, string(text), normalizeOutput, cmd.OutOrStdout())
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeCategory, "category", "", "product type: CAR, BIKE or HEALTH (required)")
	normalizeCmd.Flags().StringVar(&normalizeFile, "file", "", "classifier payload file, - for stdin (required)")
	normalizeCmd.Flags().StringVar(&normalizeOutput, "output", "json", "output format: json or yaml")
	_ = normalizeCmd.MarkFlagRequired("category")
	_ = normalizeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(ctx context.Context, env *serviceEnv, cat model.Category, text, format string, w io.Writer) error {
	out, err := env.Service.Normalize(ctx, cat, text)
	if err != nil {
		return err
	}
	doc, err := newEnvelope("Payload normalized successfully", out)
	if err != nil {
		return err
	}
	return writeOutput(w, format, doc)
}

// writeOutput renders v as indented JSON or YAML.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml":
		// Round trip through JSON so YAML keys follow the json tags of
		// the records.
		b, err := json.Marshal(v)
		if err != nil {
			return eris.Wrap(err, "encode json")
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return eris.Wrap(err, "decode json")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	}
	return eris.Errorf("unknown output format %q", format)
}
