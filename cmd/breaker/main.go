// Command breaker recovers English plaintext from binary-encoded text that was
// enciphered with a substitution cipher followed by a Caesar shift.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/quadbreak/internal/config"
	"github.com/danielpatrickdp/quadbreak/internal/logging"
	"github.com/danielpatrickdp/quadbreak/internal/pipeline"
	"github.com/danielpatrickdp/quadbreak/internal/quadgram"
	"github.com/danielpatrickdp/quadbreak/internal/store"
)

// #region app
// app holds the state shared by every subcommand.
type app struct {
	// Global flags
	configPath string
	quadgrams  string
	database   string
	verbose    bool
	seed       uint64

	cfg    config.Config
	logger *zap.Logger
}

// #endregion app

// #region root
func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "breaker",
		Short: "Break binary-encoded Caesar and substitution ciphertext",
		Long: `breaker decodes 8-bit binary tokens to text, undoes a Caesar shift and then
searches for the substitution key by simulated annealing, scoring every
candidate against English quadgram statistics.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "breaker.yaml", "YAML config file (missing file uses defaults)")
	root.PersistentFlags().StringVar(&a.quadgrams, "quadgrams", "", "quadgram table \"SEQUENCE COUNT\" (default: built-in model)")
	root.PersistentFlags().StringVar(&a.database, "db", "", "SQLite run history (default: none)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().Uint64Var(&a.seed, "seed", 0, "search seed (0 draws one from the clock)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newReplayCmd(a))
	root.AddCommand(newQuadgramsCmd(a))
	root.AddCommand(newExportCmd(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.quadgrams != "" {
		cfg.Quadgrams = a.quadgrams
	}
	if a.database != "" {
		cfg.Database = a.database
	}
	if cmd.Flags().Changed("seed") {
		cfg.Search.Seed = a.seed
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// #endregion root

// #region wiring
func (a *app) loadModel() (*quadgram.Model, error) {
	if a.cfg.Quadgrams == "" {
		a.logger.Debug("using built-in quadgram model")
		return quadgram.Builtin()
	}
	m, err := quadgram.LoadFile(a.cfg.Quadgrams)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded quadgram table",
		zap.String("path", a.cfg.Quadgrams),
		zap.Int("sequences", m.Len()),
		zap.Uint64("total", m.Total()))
	return m, nil
}

func (a *app) newPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	m, err := a.loadModel()
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.Option{pipeline.WithLogger(a.logger)}, opts...)
	return pipeline.New(m, a.cfg.Search.Substitution(), opts...)
}

// openStore opens the run history, or returns nil when none is configured.
func (a *app) openStore() (*store.Store, error) {
	if a.cfg.Database == "" {
		return nil, nil
	}
	s, err := store.NewStore(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", a.cfg.Database, err)
	}
	return s, nil
}

// #endregion wiring
