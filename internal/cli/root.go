package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskpad/internal/auth"
	"taskpad/internal/format"
	"taskpad/internal/model"
	"taskpad/internal/store"
	"taskpad/internal/tui"
)

type App struct {
	ConfigDir  string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskpad",
		Short:        "Taskpad (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskpad

  # Scriptable commands
  taskpad tasks list
  taskpad tasks add "Buy milk" --due 2026-09-01
  taskpad notes list --category work
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("TASKPAD_CONFIG_DIR", ""), "Path to config/data dir (default: ~/.taskpad)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newResetPasswordCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))

	return cmd
}

// env bundles the open handles a command needs: config dir, settings,
// database and auth service.
type env struct {
	dir      string
	settings store.Settings
	db       *store.SQLite
	auth     *auth.Service
}

func (e *env) Close() error { return e.db.Close() }

func openEnv(ctx context.Context, app *App) (*env, error) {
	dir := app.ConfigDir
	if dir == "" {
		d, err := store.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	settings, err := store.LoadSettings(dir)
	if err != nil {
		return nil, err
	}
	db, err := store.OpenSQLite(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &env{
		dir:      dir,
		settings: settings,
		db:       db,
		auth:     auth.NewService(db, dir),
	}, nil
}

// requireUser resolves the signed-in profile or fails with a login hint.
func requireUser(ctx context.Context, e *env) (model.Profile, error) {
	p, ok, err := e.auth.CurrentUser(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if !ok {
		return model.Profile{}, errors.New("not signed in; run `taskpad login` or `taskpad register`")
	}
	return p, nil
}

// openItems loads the item store and category index for the current user.
func openItems(ctx context.Context, e *env, uid string) (*store.ItemStore, *store.CategoryIndex, error) {
	items := store.NewItemStore(e.db, uid)
	if err := items.LoadTasks(ctx); err != nil {
		return nil, nil, err
	}
	if err := items.LoadNotes(ctx); err != nil {
		return nil, nil, err
	}
	cats, err := store.LoadCategories(e.dir)
	if err != nil {
		return nil, nil, err
	}
	return items, cats, nil
}

func loadCategories(e *env) (*store.CategoryIndex, error) {
	return store.LoadCategories(e.dir)
}

// resolveCategory maps a --category value (id or name, case-insensitive)
// to a category id. Empty means "all".
func resolveCategory(cats *store.CategoryIndex, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, c := range cats.Categories() {
		if c.ID == s || strings.EqualFold(c.Name, s) {
			return c.ID, nil
		}
	}
	return "", errNotFound("category", s)
}

func runTUI(app *App) error {
	ctx := context.Background()
	e, err := openEnv(ctx, app)
	if err != nil {
		return err
	}
	defer e.Close()
	return tui.Run(ctx, tui.Deps{
		ConfigDir: e.dir,
		Settings:  e.settings,
		DB:        e.db,
		Auth:      e.auth,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
