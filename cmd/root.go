package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/config"
	"github.com/seo-optimizer/onpage/logging"
)

// Version is set at build time with -ldflags "-X github.com/seo-optimizer/onpage/cmd.Version=..."
var Version = "dev"

// ExitError carries a process exit status. Its message has already been shown.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app holds what every command shares once flags and config are resolved
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// defaultLogLevel is used when no log level was configured
func (a *app) setup(cmd *cobra.Command, defaultLogLevel string) error {
	envFile := config.LoadEnv()

	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if envFile != "" {
		logger.Debug("Loaded environment file", zap.String("file", envFile))
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "onpage",
		Short: "On-page SEO review for Markdown content",
		Long: `onpage reviews a Markdown document for a focus keyword and reports on its
title, meta description, word count, keyword density, images, links and
sub-heading structure. It runs once from the command line or as an HTTP API.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./onpage.yaml)")
	flags.String("format", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable coloured output")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("strict", false, "exit with status 2 when any check fails")
	flags.String("data-dir", "", "directory for persistent statistics")

	root.AddCommand(newAnalyzeCmd(a), newServeCmd(a), newVersionCmd())
	return root
}

// Execute runs the command line and exits with the resulting status
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
