package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/quadbreak/internal/store"
)

type inspectOptions struct {
	last    int
	runID   string
	jsonOut bool
}

func newInspectCmd(a *app) *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.last, "last", 20, "show N most recent runs")
	cmd.Flags().StringVar(&opts.runID, "run", "", "show a single run with its stages")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

func (a *app) inspect(w io.Writer, opts inspectOptions) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	if s == nil {
		return errors.New("no run history configured: pass --db or set database in the config")
	}
	defer s.Close()

	if opts.runID != "" {
		return runDetailMode(w, s, opts.runID, opts.jsonOut)
	}
	return runListMode(w, s, opts.last, opts.jsonOut)
}

// #region list-mode

type listRow struct {
	RunID     string  `json:"run_id"`
	Shift     int     `json:"shift"`
	Key       string  `json:"key"`
	Fitness   float64 `json:"fitness"`
	Seed      uint64  `json:"seed"`
	TookMS    int64   `json:"took_ms"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(w io.Writer, s *store.Store, last int, jsonOut bool) error {
	runs, err := s.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[i] = listRow{
			RunID:     r.RunID,
			Shift:     r.Shift,
			Key:       r.Key,
			Fitness:   r.Fitness,
			Seed:      r.Seed,
			TookMS:    r.Duration.Milliseconds(),
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(w, rows)
	}

	fmt.Fprintf(w, "%-10s  %5s  %-26s  %8s  %8s  %s\n", "Run", "Shift", "Key", "Fitness", "Took", "Time")
	fmt.Fprintf(w, "%-10s+-%5s+-%-26s+-%8s+-%8s+-%s\n",
		"----------", "-----", "--------------------------", "--------", "--------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %5d  %-26s  %8.3f  %6dms  %s\n",
			shortID(r.RunID), r.Shift, r.Key, r.Fitness, r.TookMS, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type stageRow struct {
	Stage   string          `json:"stage"`
	Outcome string          `json:"outcome"`
	Score   float64         `json:"score"`
	Fitness float64         `json:"fitness"`
	TookMS  int64           `json:"took_ms"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

type detailOutput struct {
	RunID       string          `json:"run_id"`
	InputSHA256 string          `json:"input_sha256"`
	Shift       int             `json:"shift"`
	Key         string          `json:"key"`
	Score       float64         `json:"score"`
	Fitness     float64         `json:"fitness"`
	Seed        uint64          `json:"seed"`
	Config      json.RawMessage `json:"config,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Plaintext   string          `json:"plaintext"`
	Stages      []stageRow      `json:"stages"`
}

func runDetailMode(w io.Writer, s *store.Store, runID string, jsonOut bool) error {
	r, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	stages, err := s.ListStages(runID)
	if err != nil {
		return err
	}

	out := detailOutput{
		RunID:       r.RunID,
		InputSHA256: r.InputSHA256,
		Shift:       r.Shift,
		Key:         r.Key,
		Score:       r.Score,
		Fitness:     r.Fitness,
		Seed:        r.Seed,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Plaintext:   r.Plaintext,
	}
	if r.ConfigJSON != "" {
		out.Config = json.RawMessage(r.ConfigJSON)
	}
	for _, st := range stages {
		row := stageRow{
			Stage:   st.Stage,
			Outcome: st.Outcome,
			Score:   st.Score,
			Fitness: st.Fitness,
			TookMS:  st.DurationMS,
		}
		if st.DetailJSON != "" {
			row.Detail = json.RawMessage(st.DetailJSON)
		}
		out.Stages = append(out.Stages, row)
	}

	if jsonOut {
		return printJSON(w, out)
	}

	fmt.Fprintf(w, "Run:      %s\n", out.RunID)
	fmt.Fprintf(w, "Created:  %s\n", out.CreatedAt)
	fmt.Fprintf(w, "Input:    sha256 %s\n", out.InputSHA256)
	fmt.Fprintf(w, "Shift:    %d\n", out.Shift)
	fmt.Fprintf(w, "Key:      %s\n", out.Key)
	fmt.Fprintf(w, "Seed:     %d\n", out.Seed)
	fmt.Fprintf(w, "Score:    %.3f (fitness %.3f)\n", out.Score, out.Fitness)
	fmt.Fprintln(w, "\nStages:")
	for _, st := range out.Stages {
		fmt.Fprintf(w, "  %-13s %-6s fitness %8.3f  %5dms  %s\n",
			st.Stage, st.Outcome, st.Fitness, st.TookMS, string(st.Detail))
	}
	fmt.Fprintf(w, "\nPlaintext:\n%s\n", out.Plaintext)
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
