package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abatilo/gantry/internal/baseline"
	"github.com/abatilo/gantry/internal/critpath"
	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/storage"
	"github.com/abatilo/gantry/internal/task"
	"github.com/abatilo/gantry/internal/watch"
)

// criticalPath computes the critical path of the stored tasks. An empty
// project means all projects together.
func criticalPath(store storage.Backend, project string) (*critpath.Result, error) {
	tasks, err := store.List(storage.Filter{ProjectID: project})
	if err != nil {
		return nil, err
	}
	return computeCritical(tasks)
}

// computeCritical runs the engine and reports dependency cycles as a data
// problem rather than an internal failure.
func computeCritical(tasks []*task.Task) (*critpath.Result, error) {
	r, err := critpath.Compute(tasks)
	var cycle *critpath.CycleError
	if errors.As(err, &cycle) {
		return nil, gantryerrors.ScheduleIntegrityError{Err: err}
	}
	return r, err
}

// criticalCmd implements 'gantry critical'.
func criticalCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "critical",
		Short: "Show the critical path",
		Long: "Show the chain of dependent tasks with the greatest total duration.\n" +
			"Without --project all projects are analyzed together.",
		Run: func(_ *cobra.Command, _ []string) {
			r, err := criticalPath(mustStore(), project)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatCriticalPath(r))
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Analyze only this project")
	return cmd
}

// deviationCmd implements 'gantry deviation'.
func deviationCmd() *cobra.Command {
	var project, ref string
	cmd := &cobra.Command{
		Use:   "deviation",
		Short: "Compare task dates with their baseline",
		Long: "Report how far each task has drifted from its baseline dates.\n" +
			"With --baseline, compare against that snapshot without changing stored baselines.",
		Run: func(_ *cobra.Command, _ []string) {
			store := mustStore()

			tasks, err := store.List(storage.Filter{ProjectID: project})
			if err != nil {
				printError(err)
			}

			if ref != "" {
				snap, loadErr := storage.NewBaselineStore(store.BasePath()).Load(ref)
				if loadErr != nil {
					printError(loadErr)
				}
				if err = snap.CheckProject(project); err != nil {
					printError(err)
				}
				snap.Apply(tasks)
			}

			printOutput(formatter.FormatDeviation(baseline.Analyze(tasks)))
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Analyze only this project")
	cmd.Flags().StringVar(&ref, "baseline", "", "Compare against this baseline snapshot")
	return cmd
}

// watchCmd implements 'gantry watch'.
func watchCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the critical path whenever task data changes",
		Run: func(_ *cobra.Command, _ []string) {
			store := mustStore()
			if !store.IsInitialized() {
				printError(gantryerrors.NotInitializedError{})
			}

			w, err := watch.NewWatcher(store.BasePath(), cfg.Debounce(), dataFileMatcher(cfg.Storage.Driver))
			if err != nil {
				printError(err)
			}
			if err = w.Start(); err != nil {
				printError(err)
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			render := func() {
				r, critErr := criticalPath(store, project)
				if critErr != nil {
					printOutput(formatter.FormatError(critErr))
					return
				}
				printOutput(formatter.FormatCriticalPath(r))
			}

			render()
			for {
				select {
				case <-ctx.Done():
					return
				case change, ok := <-w.Changes:
					if !ok {
						printError(errors.New("file watcher stopped unexpectedly"))
					}
					slog.Info("task data changed", "file", change.File, "kind", change.Kind.String())
					render()
				}
			}
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Analyze only this project")
	return cmd
}

// dataFileMatcher returns the file filter for the backend's data files.
func dataFileMatcher(driver string) func(string) bool {
	if driver == storage.DriverSQLite {
		return func(name string) bool {
			return strings.HasPrefix(name, storage.SQLiteFile)
		}
	}
	return func(name string) bool {
		return strings.HasSuffix(name, storage.MarkdownExt)
	}
}
