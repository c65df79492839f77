package cli

import (
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check workspace consistency (optionally repair)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.workspaceDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.SQLiteStore{Dir: dir}
			snap, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := store.FromSnapshot(snap)
			if err != nil {
				return writeErr(cmd, err)
			}

			report := store.RepairValidator{}.Validate(st)
			issues := report.Issues
			if issues == nil {
				issues = []store.Issue{}
			}
			repaired := false
			if !report.Valid && repair {
				if err := s.Save(cmd.Context(), report.Repaired.Snapshot()); err != nil {
					return writeErr(cmd, err)
				}
				repaired = true
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"valid":    report.Valid,
				"issues":   issues,
				"repaired": repaired,
			}})
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Persist the repaired state")
	return cmd
}
