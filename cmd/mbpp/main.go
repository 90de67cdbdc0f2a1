package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mbpp-tools/internal/config"
)

type cliState struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "mbpp",
		Short:         "Split MBPP datasets and report their text statistics",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(st.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level: debug|info|warn|error (default silent)")

	root.AddCommand(newSplitCmd(st))
	root.AddCommand(newAnalyzeCmd(st))
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newDatasetsCmd(st))
	return root
}

func configPreRunE(st *cliState) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(st.configPath)
		if err != nil {
			return err
		}
		st.cfg = cfg
		return nil
	}
}

// initLogging configures the global logger. The default level is Disabled;
// diagnostics go to stderr only when a level is requested.
func initLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
