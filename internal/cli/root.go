package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maturity-quiz-service/internal/config"
)

// state is shared by all subcommands; it is filled by the root command's pre-run hook.
type state struct {
	configPath string
	port       string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	st := &state{}
	cmd := &cobra.Command{
		Use:           "maturity-quiz",
		Short:         "Microsoft 365 maturity assessment scoring service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(st.configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", st.configPath, err)
			}
			st.cfg = cfg
			logger, err := newLogger(cfg.Log.Level, st.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			st.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&st.port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&st.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(NewStartCmd(st))
	cmd.AddCommand(NewMigrateCmd(st))
	cmd.AddCommand(NewScoreCmd(st))
	cmd.AddCommand(NewValidateCmd(st))
	return cmd
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
