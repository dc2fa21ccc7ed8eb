package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abatilo/gantry/internal/config"
	"github.com/abatilo/gantry/internal/output"
	"github.com/abatilo/gantry/internal/storage"
)

//nolint:gochecknoglobals // CLI flags, config and formatter are package-level by design
var (
	cfgFile   string
	verbose   bool
	cfg       config.Config
	formatter output.Formatter = output.NewHumanFormatter(false)
	openStore storage.Backend
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gantry",
		Short: "Project schedules, critical paths and baselines from plain files",
		Long: "gantry - Track project tasks with dates and dependencies, find the critical path,\n" +
			"and measure drift against recorded baselines.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := config.Init(cfgFile); err != nil {
				printError(err)
			}
			loaded, err := config.Load()
			if err != nil {
				printError(err)
			}
			cfg = loaded
			formatter = output.New(cfg.Output.JSON, cfg.Output.Color)
			setupLogging()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			closeStore()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .gantry.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.Bool("json", false, "Output in JSON format")
	flags.String("driver", "", "Storage driver (markdown, sqlite)")
	flags.String("dir", "", "Storage directory (default ~/.gantry/<project-root>)")
	_ = viper.BindPFlag("output.json", flags.Lookup("json"))
	_ = viper.BindPFlag("storage.driver", flags.Lookup("driver"))
	_ = viper.BindPFlag("storage.path", flags.Lookup("dir"))

	rootCmd.AddCommand(
		initCmd(),
		addCmd(),
		editCmd(),
		listCmd(),
		showCmd(),
		startCmd(),
		finishCmd(),
		depCmd(),
		undepCmd(),
		rmCmd(),
		graphCmd(),
		criticalCmd(),
		deviationCmd(),
		watchCmd(),
		baselineCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs a text handler on stderr at the configured level.
func setupLogging() {
	level, _ := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// getStore opens the configured backend once per invocation.
func getStore() (storage.Backend, error) {
	if openStore != nil {
		return openStore, nil
	}
	store, err := storage.Open(storage.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("opened store", "driver", cfg.Storage.Driver, "path", store.BasePath())
	openStore = store
	return store, nil
}

func closeStore() {
	if openStore == nil {
		return
	}
	if err := openStore.Close(); err != nil {
		slog.Warn("closing store", "err", err)
	}
	openStore = nil
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	closeStore()
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// mustStore returns the store or exits with the error.
func mustStore() storage.Backend {
	store, err := getStore()
	if err != nil {
		printError(err)
	}
	return store
}

func printMessage(format string, args ...any) {
	printOutput(formatter.FormatMessage(fmt.Sprintf(format, args...)))
}
