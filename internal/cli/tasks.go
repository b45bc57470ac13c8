package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskpad/internal/store"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app, true))
	cmd.AddCommand(newTasksDoneCmd(app, false))
	cmd.AddCommand(newTasksRmCmd(app))

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var category string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			p, err := requireUser(cmd.Context(), e)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, cats, err := openItems(cmd.Context(), e, p.UID)
			if err != nil {
				return writeErr(cmd, err)
			}

			catID, err := resolveCategory(cats, category)
			if err != nil {
				return writeErr(cmd, err)
			}
			sf, err := store.ParseStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}

			f := store.ViewFilter{CategoryID: catID, Status: sf}
			return writeOut(cmd, app, f.VisibleTasks(items.Tasks()))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category id or name")
	cmd.Flags().StringVar(&status, "status", string(store.StatusAll), "Status filter (all|active|completed)")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var description string
	var due string
	var category string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			p, err := requireUser(cmd.Context(), e)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, cats, err := openItems(cmd.Context(), e, p.UID)
			if err != nil {
				return writeErr(cmd, err)
			}

			catID, err := resolveCategory(cats, category)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := validDueDate(due); err != nil {
				return writeErr(cmd, err)
			}

			id, err := items.AddTask(cmd.Context(), args[0], description, due, catID)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := items.TaskByID(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Category id or name")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title string
	var description string
	var due string
	var clearDue bool
	var category string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			p, err := requireUser(cmd.Context(), e)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, cats, err := openItems(cmd.Context(), e, p.UID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := items.TaskByID(args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}

			var fields store.TaskFields
			if cmd.Flags().Changed("title") {
				fields.Title = &title
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			if clearDue {
				empty := ""
				fields.DueDate = &empty
			} else if cmd.Flags().Changed("due") {
				if err := validDueDate(due); err != nil {
					return writeErr(cmd, err)
				}
				fields.DueDate = &due
			}
			if cmd.Flags().Changed("category") {
				catID, err := resolveCategory(cats, category)
				if err != nil {
					return writeErr(cmd, err)
				}
				fields.CategoryID = &catID
			}
			if fields == (store.TaskFields{}) {
				return writeErr(cmd, errors.New("nothing to update; pass --title, --description, --due, --clear-due or --category"))
			}

			if err := items.UpdateTask(cmd.Context(), args[0], fields); err != nil {
				return writeErr(cmd, err)
			}
			t, _ := items.TaskByID(args[0])
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVar(&category, "category", "", "New category id or name")
	return cmd
}

func newTasksDoneCmd(app *App, completed bool) *cobra.Command {
	use, short := "done <task-id>", "Mark a task completed"
	if !completed {
		use, short = "undone <task-id>", "Mark a task active again"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			p, err := requireUser(cmd.Context(), e)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, _, err := openItems(cmd.Context(), e, p.UID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := items.TaskByID(args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}

			if err := items.ToggleTask(cmd.Context(), args[0], completed); err != nil {
				return writeErr(cmd, err)
			}
			t, _ := items.TaskByID(args[0])
			return writeOut(cmd, app, t)
		},
	}
}

func newTasksRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			p, err := requireUser(cmd.Context(), e)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, _, err := openItems(cmd.Context(), e, p.UID)
			if err != nil {
				return writeErr(cmd, err)
			}

			if err := items.RemoveTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

// validDueDate accepts empty or a calendar date in YYYY-MM-DD form.
func validDueDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return store.NewValidationError("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return nil
}
