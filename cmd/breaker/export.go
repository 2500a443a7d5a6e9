package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/quadbreak/internal/replay"
	"github.com/danielpatrickdp/quadbreak/internal/store"
	"github.com/danielpatrickdp/quadbreak/internal/substitution"
)

func newExportCmd(a *app) *cobra.Command {
	var outPath string
	var last int
	cmd := &cobra.Command{
		Use:   "export-fixture",
		Short: "Turn recent runs from the history into a replay fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exportFixture(outPath, last)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output fixture JSON path")
	cmd.Flags().IntVar(&last, "last", 4, "number of most recent runs to export")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) exportFixture(outPath string, last int) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	if s == nil {
		return errors.New("no run history configured: pass --db or set database in the config")
	}
	defer s.Close()

	runs, err := s.ListRuns(last)
	if err != nil {
		return err
	}
	f, err := buildFixture(runs)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	a.logger.Info("fixture exported", zap.String("out", outPath), zap.Int("cases", len(f.Cases)))
	return nil
}

// buildFixture converts runs, newest first, into a fixture in chronological
// order. The recorded plaintexts become the expected ones, and every case
// carries the tuning and seed its run used so the replay can reproduce it.
func buildFixture(runs []store.RunRecord) (*replay.Fixture, error) {
	f := &replay.Fixture{Description: "exported from run history"}
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		if r.Encoded == "" {
			continue
		}
		search := &replay.FixtureSearch{Seed: r.Seed}
		if r.ConfigJSON != "" {
			var cfg substitution.Config
			if err := json.Unmarshal([]byte(r.ConfigJSON), &cfg); err != nil {
				return nil, fmt.Errorf("parse run config %s: %w", r.RunID, err)
			}
			cfg.Seed = r.Seed
			search = replay.SearchFromConfig(cfg)
		}
		shift := r.Shift
		f.Cases = append(f.Cases, replay.FixtureCase{
			Name:      shortID(r.RunID),
			Encoded:   r.Encoded,
			Plaintext: r.Plaintext,
			Shift:     &shift,
			Search:    search,
		})
	}
	if len(f.Cases) == 0 {
		return nil, errors.New("no runs with a recorded input to export")
	}
	return f, nil
}
