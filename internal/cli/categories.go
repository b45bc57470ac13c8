package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"taskpad/internal/model"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category commands",
	}

	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesSetIconCmd(app))
	cmd.AddCommand(newCategoriesRmCmd(app))
	cmd.AddCommand(newCategoriesIconsCmd(app))

	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
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

			if !counts {
				return writeOut(cmd, app, cats.Categories())
			}

			type row struct {
				model.Category
				Count int `json:"count"`
			}
			out := make([]row, 0, len(cats.Categories()))
			for _, c := range cats.Categories() {
				out = append(out, row{
					Category: c,
					Count:    cats.CountFor(c.ID, items.Tasks(), items.Notes()),
				})
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&counts, "counts", false, "Include item counts per category")
	return cmd
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			if _, err := requireUser(cmd.Context(), e); err != nil {
				return writeErr(cmd, err)
			}
			cats, err := loadCategories(e)
			if err != nil {
				return writeErr(cmd, err)
			}

			c, err := cats.Add(args[0], icon)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, c)
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "Icon name (see `taskpad categories icons`)")
	return cmd
}

func newCategoriesSetIconCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-icon <category> <icon>",
		Short: "Change a category icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			if _, err := requireUser(cmd.Context(), e); err != nil {
				return writeErr(cmd, err)
			}
			cats, err := loadCategories(e)
			if err != nil {
				return writeErr(cmd, err)
			}

			id, err := resolveCategory(cats, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if id == "" {
				return writeErr(cmd, errNotFound("category", args[0]))
			}
			if !model.ValidCategoryIcon(args[1]) {
				return writeErr(cmd, errors.New("unknown icon; see `taskpad categories icons`"))
			}
			if err := cats.UpdateIcon(id, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := cats.ByID(id)
			return writeOut(cmd, app, c)
		},
	}
}

func newCategoriesRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <category>",
		Short: "Delete a category (items keep their reference and fall back to All)",
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

			if _, err := requireUser(cmd.Context(), e); err != nil {
				return writeErr(cmd, err)
			}
			cats, err := loadCategories(e)
			if err != nil {
				return writeErr(cmd, err)
			}

			id, err := resolveCategory(cats, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if id == "" {
				return writeErr(cmd, errNotFound("category", args[0]))
			}
			if err := cats.Remove(id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newCategoriesIconsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "icons",
		Short: "List available category icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, model.CategoryIcons)
		},
	}
}
