// cmd/intake/cmd_compute.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	resultrenderer "eligibility-intake/internal/intake/result-renderer"
	"eligibility-intake/internal/intake/session"
)

var (
	profilePath  string
	outputFormat string
)

// errNotOK makes the process exit non-zero without printing a second message.
var errNotOK = errors.New("submission did not succeed")

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Evaluate an applicant profile",
	Long: `Loads a YAML applicant profile, replays it into a fresh session, submits it
and prints either the result cards or the validation/service errors.

Exits with status 1 when the submission is blocked or the service fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(profilePath)
		if err != nil {
			return fmt.Errorf("read profile: %w", err)
		}
		profile, err := session.ParseProfile(data)
		if err != nil {
			return err
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		outcome, err := runCompute(cmd.Context(), rt, profile)
		if err != nil {
			return err
		}
		if err := printOutcome(cmd.OutOrStdout(), outcome, outputFormat); err != nil {
			return err
		}
		if outcome.Status != requestorchestrator.StatusOK {
			cmd.SilenceErrors = true
			return errNotOK
		}
		return nil
	},
}

func init() {
	computeCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "applicant profile (YAML)")
	computeCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")
	_ = computeCmd.MarkFlagRequired("profile")
}

func runCompute(ctx context.Context, rt *runtime, profile *session.Profile) (requestorchestrator.Outcome, error) {
	sess, err := session.Bootstrap(ctx, rt.service, rt.cfg.Institutions, rt.log)
	if err != nil {
		return requestorchestrator.Outcome{}, err
	}
	if err := sess.DispatchAll(ctx, profile.Events()); err != nil {
		return requestorchestrator.Outcome{}, err
	}

	orch := requestorchestrator.NewOrchestrator(
		requestorchestrator.LoadConfig(),
		rt.service,
		resultrenderer.NewRenderer(rt.cfg.Institutions),
		rt.obs,
		rt.log,
	)
	return sess.Submit(ctx, orch), nil
}

func printOutcome(w io.Writer, outcome requestorchestrator.Outcome, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	case "text", "":
		if len(outcome.Errors) > 0 {
			for _, msg := range outcome.Errors {
				fmt.Fprintf(w, "✗ %s\n", msg)
			}
			return nil
		}
		fmt.Fprintln(w, resultrenderer.View(outcome.Cards))
		return nil
	}
	return fmt.Errorf("unsupported output format %q", format)
}
