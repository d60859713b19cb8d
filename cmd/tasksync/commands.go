package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tasksync/internal/activity"
	"tasksync/internal/model"
	"tasksync/internal/views"
)

func newSyncCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Load the workspace tree from cache or remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), force); err != nil {
				return err
			}
			snap := a.store.Snapshot()
			fmt.Printf("%d workspaces\n", len(snap.Workspaces))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the disk cache")
	return cmd
}

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Tasks starting or due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			snap := a.store.Snapshot()
			now := time.Now()
			fmt.Println("Due today:")
			printTasks(a.views.DueToday(snap, now))
			fmt.Println("Starting today:")
			printTasks(a.views.StartedToday(snap, now))
			return nil
		},
	}
}

func newOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "Tasks past their deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			printTasks(a.views.PastDue(a.store.Snapshot(), time.Now()))
			return nil
		},
	}
}

func newUpcomingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "Tasks with a future deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			printTasks(a.views.FutureDue(a.store.Snapshot(), time.Now()))
			return nil
		},
	}
}

func newRecentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Recently visited workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.recency.All() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newWorkspacesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Manage workspaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			for _, w := range a.store.Snapshot().Workspaces {
				marker := ""
				if w.IsBlueprint {
					marker = " (blueprint)"
				}
				fmt.Printf("%s%s: %d categories\n", w.Name, marker, len(w.Categories))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.CreateWorkspace(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.RenameWorkspace(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.DeleteWorkspace(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Select a workspace and show its categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			if !a.store.WorkspaceExists(args[0]) {
				return fmt.Errorf("workspace %q not found", args[0])
			}
			a.store.Select(args[0])
			for _, c := range a.store.Categories() {
				fmt.Printf("%s (%s): %d tasks\n", c.Name, c.ID, len(c.Tasks))
			}
			return nil
		},
	})

	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <workspace> <name>",
		Short: "Add a category to a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.CreateCategory(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <category-id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.RenameCategory(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <workspace> <category-id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.DeleteCategory(cmd.Context(), args[0], args[1])
		},
	})

	return cmd
}

func newTasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	var priority, value int
	var deadline string
	add := &cobra.Command{
		Use:   "add <category-id> <content>",
		Short: "Add a task to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			task := model.Task{Content: args[1], Priority: priority, Value: value, Active: true}
			if deadline != "" {
				at, err := time.ParseInLocation("2006-01-02 15:04", deadline, time.Local)
				if err != nil {
					return fmt.Errorf("parse deadline: %w", err)
				}
				task.Deadline = &at
			}
			return a.engine.AddTask(cmd.Context(), args[0], task)
		},
	}
	add.Flags().IntVar(&priority, "priority", 1, "task priority")
	add.Flags().IntVar(&value, "value", 1, "task value")
	add.Flags().StringVar(&deadline, "deadline", "", "deadline, \"YYYY-MM-DD HH:MM\" local time")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "done <category-id> <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			task, err := findTask(a, args[0], args[1])
			if err != nil {
				return err
			}
			now := time.Now()
			task.Active = false
			task.CompletedAt = &now
			return a.engine.UpdateTask(cmd.Context(), args[0], task)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <category-id> <task-id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			return a.engine.RemoveTask(cmd.Context(), args[0], args[1])
		},
	})

	return cmd
}

func newActivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Completion activity levels",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "recent",
		Short: "Activity levels for the last 8 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			levels := activity.RecentWindow(completionDays(a), time.Now())
			fmt.Println(levels)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "month <year> <month>",
		Short: "Activity levels for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sync.Load(cmd.Context(), false); err != nil {
				return err
			}
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse year: %w", err)
			}
			month, err := strconv.Atoi(args[1])
			if err != nil || month < 1 || month > 12 {
				return fmt.Errorf("invalid month %q", args[1])
			}
			levels := activity.MonthLevels(completionDays(a), year, time.Month(month))
			fmt.Println(levels)
			return nil
		},
	})

	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var daily string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the tree fresh until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, a, daily)
		},
	}
	cmd.Flags().StringVar(&daily, "daily", "", "also refresh at a fixed time each day (HH:MM)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the session: tree, selection, recency, and cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sync.Dispose(cmd.Context())
		},
	}
}

// completionDays rolls the tree's completion timestamps up into per-day
// counts for the activity views.
func completionDays(a *app) []activity.Day {
	counts := make(map[time.Time]int)
	for _, t := range a.views.Flatten(a.store.Snapshot()) {
		if t.CompletedAt == nil {
			continue
		}
		at := t.CompletedAt.Local()
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.Local)
		counts[day]++
	}
	days := make([]activity.Day, 0, len(counts))
	for day, count := range counts {
		days = append(days, activity.Day{Date: day, Count: count})
	}
	return days
}

func findTask(a *app, categoryID, taskID string) (model.Task, error) {
	for _, annotated := range a.views.Flatten(a.store.Snapshot()) {
		if annotated.CategoryID == categoryID && annotated.ID == taskID {
			return annotated.Task, nil
		}
	}
	return model.Task{}, fmt.Errorf("task %q not found in category %q", taskID, categoryID)
}

func printTasks(tasks []views.AnnotatedTask) {
	if len(tasks) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, t := range tasks {
		due := ""
		if t.Deadline != nil {
			due = " due " + t.Deadline.Local().Format("Jan 2 15:04")
		}
		fmt.Printf("  [%s] %s%s\n", t.CategoryName, t.Content, due)
	}
}
