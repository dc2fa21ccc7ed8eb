package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/gantry/internal/baseline"
	"github.com/abatilo/gantry/internal/storage"
	"github.com/abatilo/gantry/internal/task"
)

// baselineCmd implements the 'gantry baseline' command group.
func baselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Record and apply baseline snapshots",
	}

	cmd.AddCommand(
		baselineSetCmd(),
		baselineListCmd(),
		baselineApplyCmd(),
		baselineRmCmd(),
	)

	return cmd
}

// applySnapshot copies the snapshot into the tasks and saves those that
// changed.
func applySnapshot(store storage.Backend, snap *baseline.Snapshot, tasks []*task.Task) (int, error) {
	changed := snap.Apply(tasks)
	for _, t := range changed {
		if err := store.Save(t); err != nil {
			return 0, err
		}
	}
	return len(changed), nil
}

// baselineSetCmd implements 'gantry baseline set'.
func baselineSetCmd() *cobra.Command {
	var project string
	var noApply bool
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Snapshot current task dates as a new baseline",
		Long: "Record the current start and end dates of every task (or of one project)\n" +
			"as a named baseline and copy them into the tasks' baseline dates.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			tasks, err := store.List(storage.Filter{ProjectID: project})
			if err != nil {
				printError(err)
			}

			snap := baseline.Capture(args[0], project, tasks, time.Now())
			if err = storage.NewBaselineStore(store.BasePath()).Save(snap); err != nil {
				printError(err)
			}
			if !noApply {
				if _, err = applySnapshot(store, snap, tasks); err != nil {
					printError(err)
				}
			}
			printOutput(formatter.FormatBaseline(snap))
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Snapshot only this project")
	cmd.Flags().BoolVar(&noApply, "no-apply", false, "Record the snapshot without updating task baselines")
	return cmd
}

// baselineListCmd implements 'gantry baseline list'.
func baselineListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List baseline snapshots",
		Run: func(_ *cobra.Command, _ []string) {
			store := mustStore()
			snaps, err := storage.NewBaselineStore(store.BasePath()).List(project)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatBaselineList(snaps))
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Show only snapshots of this project")
	return cmd
}

// baselineApplyCmd implements 'gantry baseline apply'.
func baselineApplyCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "apply <baseline-id>",
		Short: "Make a recorded snapshot the tasks' baseline",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			snap, err := storage.NewBaselineStore(store.BasePath()).Load(args[0])
			if err != nil {
				printError(err)
			}
			if project == "" {
				project = snap.ProjectID
			}
			if err = snap.CheckProject(project); err != nil {
				printError(err)
			}

			tasks, err := store.List(storage.Filter{ProjectID: project})
			if err != nil {
				printError(err)
			}
			n, err := applySnapshot(store, snap, tasks)
			if err != nil {
				printError(err)
			}
			printMessage("Applied baseline %s to %d task(s)", snap.Name, n)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Apply only to this project")
	return cmd
}

// baselineRmCmd implements 'gantry baseline rm'.
func baselineRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <baseline-id>",
		Short: "Delete a baseline snapshot",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()
			if err := storage.NewBaselineStore(store.BasePath()).Delete(args[0]); err != nil {
				printError(err)
			}
			printMessage("Removed baseline %s", args[0])
		},
	}
}
