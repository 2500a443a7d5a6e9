package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/quadbreak/internal/replay"
)

// errDiverged makes the process exit non-zero once the table is printed.
var errDiverged = errors.New("replay diverged")

func newReplayCmd(a *app) *cobra.Command {
	var fixturePath string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a fixture of known ciphertexts and compare the plaintexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := replay.LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			p, err := a.newPipeline()
			if err != nil {
				return err
			}
			results, err := replay.Replay(cmd.Context(), p, f)
			if err != nil {
				return err
			}
			return printComparison(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to fixture JSON")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

// printComparison outputs a comparison table and reports errDiverged if any
// case failed.
func printComparison(w io.Writer, results []replay.CaseResult) error {
	fmt.Fprintf(w, "%-16s| %5s| %9s| %9s| %s\n", "Case", "Shift", "Accuracy", "Fitness", "Match")
	fmt.Fprintf(w, "%-16s+%6s+%10s+%10s+%s\n",
		"----------------", "------", "----------", "----------", "------")

	for _, r := range results {
		match := "OK"
		switch {
		case r.Err != nil:
			match = "ERROR " + r.Reason
		case !r.Passed:
			match = "DIFF " + r.Reason
		}
		fmt.Fprintf(w, "%-16s| %5d| %9.4f| %9.3f| %s\n", r.Name, r.Shift, r.Accuracy, r.Fitness, match)
	}

	s := replay.Summarize(results)
	fmt.Fprintf(w, "\nSummary: %d total, %d match, %d diverge, %d error (mean accuracy %.4f)\n",
		s.TotalCases, s.Passed, s.Failed, s.Errors, s.MeanAccuracy)

	if s.Failed+s.Errors > 0 {
		return errDiverged
	}
	return nil
}
