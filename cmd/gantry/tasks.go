package main

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/abatilo/gantry/internal/deps"
	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/storage"
	"github.com/abatilo/gantry/internal/task"
)

// initCmd implements 'gantry init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Run: func(_ *cobra.Command, _ []string) {
			store := mustStore()
			if err := store.Init(force); err != nil {
				printError(err)
			}
			printMessage("Initialized gantry at %s", store.BasePath())
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinitialize even if already exists")
	return cmd
}

// addCmd implements 'gantry add'.
func addCmd() *cobra.Command {
	var (
		description, priority, project, start, end string
		milestone                                  bool
		after                                      []string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			p := task.Priority(priority)
			if !task.IsValidPriority(p) {
				printError(gantryerrors.InvalidPriorityError{Value: priority})
			}
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				printError(err)
			}
			endDate, err := parseDateFlag("end", end)
			if err != nil {
				printError(err)
			}
			for _, depID := range after {
				if _, err = store.Load(depID); err != nil {
					printError(err)
				}
			}

			t, err := store.CreateTask(storage.NewTask{
				Title:       args[0],
				Description: description,
				ProjectID:   project,
				Priority:    p,
				StartDate:   startDate,
				EndDate:     endDate,
				IsMilestone: milestone,
				DependsOn:   dedupe(after),
			})
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (high, medium, low)")
	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Mark as a milestone")
	cmd.Flags().StringSliceVar(&after, "after", nil, "IDs of tasks this task depends on")
	return cmd
}

// editCmd implements 'gantry edit'. Only flags that are given change the task.
func editCmd() *cobra.Command {
	var (
		name, description, priority, status, project, start, end string
		progress                                                 int
		milestone                                                bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := mustStore()

			t, err := store.Load(args[0])
			if err != nil {
				printError(err)
			}

			changed := cmd.Flags().Changed
			if changed("name") {
				t.Title = name
			}
			if changed("description") {
				t.Description = description
			}
			if changed("priority") {
				if !task.IsValidPriority(task.Priority(priority)) {
					printError(gantryerrors.InvalidPriorityError{Value: priority})
				}
				t.Priority = task.Priority(priority)
			}
			if changed("status") {
				if !task.IsValidStatus(task.Status(status)) {
					printError(gantryerrors.InvalidStatusValueError{Value: status})
				}
				t.Status = task.Status(status)
			}
			if changed("project") {
				t.ProjectID = project
			}
			if changed("start") {
				if t.StartDate, err = parseDateFlag("start", start); err != nil {
					printError(err)
				}
			}
			if changed("end") {
				if t.EndDate, err = parseDateFlag("end", end); err != nil {
					printError(err)
				}
			}
			if changed("progress") {
				if err = validateProgress(progress); err != nil {
					printError(err)
				}
				t.Progress = progress
			}
			if changed("milestone") {
				t.IsMilestone = milestone
			}

			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (high, medium, low)")
	cmd.Flags().StringVar(&status, "status", "", "Status (todo, in_progress, done)")
	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&start, "start", "", "Start date; empty clears it")
	cmd.Flags().StringVar(&end, "end", "", "End date; empty clears it")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percentage (0-100)")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Mark as a milestone")
	return cmd
}

// listCmd implements 'gantry list'.
func listCmd() *cobra.Command {
	var (
		filter storage.Filter
		ready  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Run: func(_ *cobra.Command, _ []string) {
			store := mustStore()

			if ready {
				all, err := store.List(storage.Filter{ProjectID: filter.ProjectID})
				if err != nil {
					printError(err)
				}
				printOutput(formatter.FormatTaskList(deps.NewGraph(all).Ready()))
				return
			}

			tasks, err := store.List(filter)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTaskList(tasks))
		},
	}
	cmd.Flags().BoolVar(&filter.Todo, "todo", false, "Show only todo tasks")
	cmd.Flags().BoolVar(&filter.InProgress, "in-progress", false, "Show only in-progress tasks")
	cmd.Flags().BoolVar(&filter.Done, "done", false, "Show only done tasks")
	cmd.Flags().StringVar(&filter.ProjectID, "project", "", "Show only tasks of this project")
	cmd.Flags().BoolVar(&ready, "ready", false, "Show todo tasks whose dependencies are done")
	return cmd
}

// showCmd implements 'gantry show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			t, err := mustStore().Load(args[0])
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// startCmd implements 'gantry start'.
func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a task (mark as in progress)",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			t, err := store.Load(args[0])
			if err != nil {
				printError(err)
			}
			if t.Status != task.StatusTodo {
				printError(gantryerrors.InvalidStatusError{
					ID:       t.ID,
					Current:  string(t.Status),
					Expected: string(task.StatusTodo),
				})
			}

			tasks, err := store.List(storage.Filter{})
			if err != nil {
				printError(err)
			}
			if blockers := deps.NewGraph(tasks).BlockedBy(t.ID); len(blockers) > 0 {
				printError(gantryerrors.BlockedError{ID: t.ID, BlockedBy: blockers})
			}

			t.Status = task.StatusInProgress
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// finishCmd implements 'gantry finish'.
func finishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Finish a task (mark as done)",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			t, err := store.Load(args[0])
			if err != nil {
				printError(err)
			}
			if t.Status != task.StatusInProgress {
				printError(gantryerrors.InvalidStatusError{
					ID:       t.ID,
					Current:  string(t.Status),
					Expected: string(task.StatusInProgress),
				})
			}

			t.Status = task.StatusDone
			t.Progress = 100
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// depCmd implements 'gantry dep'.
func depCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dep <id> <depends-on-id>",
		Short: "Add a dependency",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()
			taskID, depID := args[0], args[1]

			tasks, err := store.List(storage.Filter{})
			if err != nil {
				printError(err)
			}
			if err = deps.NewGraph(tasks).ValidateAddDep(taskID, depID); err != nil {
				printError(err)
			}

			t, err := store.Load(taskID)
			if err != nil {
				printError(err)
			}
			if slices.Contains(t.DependsOn, depID) {
				printMessage("Dependency already exists")
				return
			}

			t.DependsOn = append(t.DependsOn, depID)
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// undepCmd implements 'gantry undep'.
func undepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undep <id> <depends-on-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()

			t, err := store.Load(args[0])
			if err != nil {
				printError(err)
			}

			depID := args[1]
			originalLen := len(t.DependsOn)
			t.DependsOn = slices.DeleteFunc(t.DependsOn, func(d string) bool {
				return d == depID
			})
			if len(t.DependsOn) == originalLen {
				printMessage("Dependency not found")
				return
			}
			if err = store.Save(t); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// rmCmd implements 'gantry rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store := mustStore()
			taskID := args[0]

			if _, err := store.Load(taskID); err != nil {
				printError(err)
			}
			// Remove from other tasks' dependencies
			if err := store.RemoveDependency(taskID); err != nil {
				printError(err)
			}
			if err := store.Delete(taskID); err != nil {
				printError(err)
			}
			printMessage("Removed task %s", taskID)
		},
	}
}

// graphCmd implements 'gantry graph'.
func graphCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Display dependency graph",
		Run: func(_ *cobra.Command, _ []string) {
			tasks, err := mustStore().List(storage.Filter{ProjectID: project})
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatGraph(deps.NewGraph(tasks).BuildTree()))
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Show only tasks of this project")
	return cmd
}
