// Command smtfuzz drives the model-based SMT API fuzzer: generate
// traces against a backend, replay recorded traces, and self-check the
// replay guarantees.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alma.local/smtfuzz/config"
	"alma.local/smtfuzz/fsm"
	"alma.local/smtfuzz/mocksolver"
	"alma.local/smtfuzz/op"
	"alma.local/smtfuzz/oracle"
	"alma.local/smtfuzz/rng"
	"alma.local/smtfuzz/smgr"
	"alma.local/smtfuzz/stats"
	"alma.local/smtfuzz/trace"
)

var (
	cfg        config.Config
	cfgPath    string
	outDir     string
	seedFlag   uint64
	budgetFlag uint64
	runsFlag   uint64
	theories   []string
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "smtfuzz",
	Short:         "Model-based API fuzzer for SMT solvers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Default()
		if cfgPath != "" {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seedFlag
		}
		if cmd.Flags().Changed("budget") {
			cfg.ActionBudget = budgetFlag
		}
		if cmd.Flags().Changed("runs") {
			cfg.Runs = runsFlag
		}
		if len(theories) > 0 {
			cfg.Theories = theories
		}
		logger = newLogger(cfg.LogLevel)
		return nil
	},
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Generate fuzzing traces against the built-in mock backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := stats.New()
		seed := cfg.Seed
		for run := uint64(0); run < cfg.Runs; run++ {
			runCfg := cfg
			runCfg.Seed = seed + run
			out, err := oracle.Generate(runCfg, st)
			if err != nil {
				return err
			}
			if err := writeTrace(runCfg, out.Trace); err != nil {
				return err
			}
			logger.Info("run complete",
				"seed", runCfg.Seed,
				"terms", out.NTerms,
				"sorts", out.NSorts,
				"sat_calls", out.NSatCalls,
				"result", out.SatResult.String())
		}
		logger.Info("fuzzing finished",
			"runs", cfg.Runs,
			"actions", st.NActions,
			"terms", st.NTerms,
			"sorts", st.NSorts)
		return nil
	},
}

func writeTrace(runCfg config.Config, data []byte) error {
	switch {
	case outDir != "":
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		name := fmt.Sprintf("smtfuzz-%d-%s.trace", runCfg.Seed, uuid.NewString())
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Info("trace written", "path", path)
		return nil
	case runCfg.TraceOut != "":
		return os.WriteFile(runCfg.TraceOut, data, 0o644)
	default:
		_, err := os.Stdout.Write(data)
		return err
	}
}

var untraceCmd = &cobra.Command{
	Use:   "untrace <trace-file>",
	Short: "Replay a recorded trace against the built-in mock backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		backend := mocksolver.New()
		catalog := op.NewCatalog()
		backend.ConfigureOps(catalog)
		m, err := smgr.New(backend, rng.New(0), trace.NewWriter(io.Discard), catalog, smgr.Options{
			SolverOptions: mocksolver.DefaultOptions(),
		})
		if err != nil {
			return err
		}
		machine := fsm.NewDefault(m)
		u := fsm.NewUntracer(m, machine.Actions())
		if err := u.Run(bytes.NewReader(data)); err != nil {
			return err
		}
		logger.Info("replay complete",
			"terms", m.NTerms(),
			"sorts", m.NSorts(),
			"sat_calls", m.NSatCalls,
			"result", m.SatResult.String())
		return nil
	},
}

var selfcheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Verify determinism and replay fidelity over a seed range",
	RunE: func(cmd *cobra.Command, args []string) error {
		for run := uint64(0); run < cfg.Runs; run++ {
			runCfg := cfg
			runCfg.Seed = cfg.Seed + run
			if err := oracle.Check(runCfg); err != nil {
				return fmt.Errorf("seed %d: %w", runCfg.Seed, err)
			}
			logger.Debug("seed checked", "seed", runCfg.Seed)
		}
		logger.Info("selfcheck passed", "seeds", cfg.Runs)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = newLogger("info")
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "yaml config file")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "base trace seed")
	rootCmd.PersistentFlags().Uint64Var(&budgetFlag, "budget", 100, "external action budget per run")
	rootCmd.PersistentFlags().Uint64Var(&runsFlag, "runs", 1, "number of runs (seed increments per run)")
	rootCmd.PersistentFlags().StringSliceVar(&theories, "theories", nil, "theories to enable (default: all supported)")
	fuzzCmd.Flags().StringVar(&outDir, "out", "", "directory for trace artifacts (default: stdout)")
	rootCmd.AddCommand(fuzzCmd, untraceCmd, selfcheckCmd)
}
