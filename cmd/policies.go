package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/store"
)

var (
	policyFile        string
	policyVehicleType string
	policyLimit       int
	policyOffset      int
	policyOutput      string
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Manage manually submitted policies",
}

var policiesSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate and store a policy read from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		var (
			body []byte
			err  error
		)
		if policyFile == "-" {
			body, err = io.ReadAll(cmd.InOrStdin())
		} else {
			body, err = os.ReadFile(policyFile)
		}
		if err != nil {
			return eris.Wrapf(err, "read %s", policyFile)
		}
		var p model.Policy
		if err := json.Unmarshal(body, &p); err != nil {
			return eris.Wrap(err, "decode policy")
		}

		env, err := initService(cmd.Context(), cfg, serviceOpts{Store: true})
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Service.SubmitPolicy(cmd.Context(), &p); err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), policyOutput, map[string]any{
			"message": "Policy stored successfully",
			"id":      p.ID,
		})
	},
}

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored policies, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		policies, err := st.ListPolicies(cmd.Context(), store.PolicyFilter{
			VehicleType: policyVehicleType,
			Limit:       policyLimit,
			Offset:      policyOffset,
		})
		if err != nil {
			return err
		}
		if policies == nil {
			policies = []model.Policy{}
		}
		return writeOutput(cmd.OutOrStdout(), policyOutput, policies)
	},
}

func init() {
	policiesSubmitCmd.Flags().StringVar(&policyFile, "file", "", "policy JSON file, - for stdin (required)")
	_ = policiesSubmitCmd.MarkFlagRequired("file")

	policiesListCmd.Flags().StringVar(&policyVehicleType, "vehicle-type", "", "filter by vehicle type")
	policiesListCmd.Flags().IntVar(&policyLimit, "limit", 0, "max rows (default 100)")
	policiesListCmd.Flags().IntVar(&policyOffset, "offset", 0, "rows to skip")

	policiesCmd.PersistentFlags().StringVar(&policyOutput, "output", "json", "output format: json or yaml")
	policiesCmd.AddCommand(policiesSubmitCmd, policiesListCmd)
	rootCmd.AddCommand(policiesCmd)
}
