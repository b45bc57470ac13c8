package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"taskpad/internal/store"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Note commands",
	}

	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesAddCmd(app))
	cmd.AddCommand(newNotesUpdateCmd(app))
	cmd.AddCommand(newNotesRmCmd(app))

	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
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

			f := store.ViewFilter{CategoryID: catID}
			return writeOut(cmd, app, f.VisibleNotes(items.Notes()))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category id or name")
	return cmd
}

func newNotesAddCmd(app *App) *cobra.Command {
	var content string
	var category string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
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

			id, err := items.AddNote(cmd.Context(), args[0], content, catID)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, ok := items.NoteByID(id)
			if !ok {
				return writeErr(cmd, errNotFound("note", id))
			}
			return writeOut(cmd, app, n)
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Note body (markdown)")
	cmd.Flags().StringVar(&category, "category", "", "Category id or name")
	return cmd
}

func newNotesUpdateCmd(app *App) *cobra.Command {
	var title string
	var content string
	var category string

	cmd := &cobra.Command{
		Use:   "update <note-id>",
		Short: "Update note fields",
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
			if _, ok := items.NoteByID(args[0]); !ok {
				return writeErr(cmd, errNotFound("note", args[0]))
			}

			var fields store.NoteFields
			if cmd.Flags().Changed("title") {
				fields.Title = &title
			}
			if cmd.Flags().Changed("content") {
				fields.Content = &content
			}
			if cmd.Flags().Changed("category") {
				catID, err := resolveCategory(cats, category)
				if err != nil {
					return writeErr(cmd, err)
				}
				fields.CategoryID = &catID
			}
			if fields == (store.NoteFields{}) {
				return writeErr(cmd, errors.New("nothing to update; pass --title, --content or --category"))
			}

			if err := items.UpdateNote(cmd.Context(), args[0], fields); err != nil {
				return writeErr(cmd, err)
			}
			n, _ := items.NoteByID(args[0])
			return writeOut(cmd, app, n)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New body (markdown)")
	cmd.Flags().StringVar(&category, "category", "", "New category id or name")
	return cmd
}

func newNotesRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <note-id>",
		Short: "Delete a note",
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

			if err := items.RemoveNote(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
