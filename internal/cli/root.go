package cli

import (
	"fmt"
	"os"
	"strings"

	"cadence-cli/internal/format"
	"cadence-cli/internal/logx"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Format     string
	PrettyJSON bool
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "cadence",
		Short:        "Cadence task-template CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a workspace in the current directory
  cadence init

  # Define templates and link them
  cadence templates create --name "Morning routine" --duration 3600000 --kind timed
  cadence children add tpl-abc tpl-def --offset 600000

  # Schedule a root and ask what is active right now
  cadence calendar add tpl-abc --start 2026-08-23T07:00:00Z
  cadence resolve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CADENCE_DIR", ""), "Path to the workspace dir (default: discovered .cadence)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CADENCE_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("CADENCE_LOG", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newChildrenCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func (app *App) workspaceDir() (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	return store.DefaultDir()
}

func (app *App) logger(cmd *cobra.Command) logx.Logger {
	return logx.NewConsoleTo(cmd.ErrOrStderr(), app.LogLevel)
}

// loadState reads the persisted snapshot and materializes it. A broken
// snapshot does not abort: the repair validator produces a usable state
// and the issues surface on stderr.
func loadState(cmd *cobra.Command, app *App) (store.State, store.SQLiteStore, error) {
	dir, err := app.workspaceDir()
	if err != nil {
		return store.State{}, store.SQLiteStore{}, err
	}
	s := store.SQLiteStore{Dir: dir}
	snap, err := s.Load(cmd.Context())
	if err != nil {
		return store.State{}, s, err
	}
	st, err := store.FromSnapshot(snap)
	if err != nil {
		return store.State{}, s, err
	}
	report := store.RepairValidator{}.Validate(st)
	if !report.Valid {
		log := app.logger(cmd)
		for _, is := range report.Issues {
			log.Warn("workspace inconsistency", logx.String("code", is.Code), logx.String("detail", is.Message))
		}
		st = *report.Repaired
	}
	return st, s, nil
}

// mutate applies actions as one batch and persists the result.
func mutate(cmd *cobra.Command, app *App, st store.State, s store.SQLiteStore, actions ...store.Action) (store.State, error) {
	next, err := store.Apply(st, store.Batch{Actions: actions})
	if err != nil {
		return st, err
	}
	if err := s.Save(cmd.Context(), next.Snapshot()); err != nil {
		return st, err
	}
	return next, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
