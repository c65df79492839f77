package cli

import (
	"os"
	"path/filepath"

	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .cadence workspace in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.Dir
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				dir = filepath.Join(cwd, ".cadence")
			}
			s := store.SQLiteStore{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			// Seed the database on first init only; re-running init on an
			// existing workspace must not wipe it.
			if _, err := os.Stat(filepath.Join(dir, "index.sqlite")); os.IsNotExist(err) {
				if err := s.Save(cmd.Context(), store.NewState().Snapshot()); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"dir": dir}})
		},
	}
	return cmd
}
