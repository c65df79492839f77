package cli

import (
	"errors"

	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newChildrenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children",
		Short: "Parent-child relationship commands",
	}
	cmd.AddCommand(newChildrenAddCmd(app))
	cmd.AddCommand(newChildrenRemoveCmd(app))
	return cmd
}

func newChildrenAddCmd(app *App) *cobra.Command {
	var offsetMs int64
	var relID string

	cmd := &cobra.Command{
		Use:   "add <parent-id> <child-id>",
		Short: "Link a child under a parent template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			act := store.AddChildToTemplate{
				ParentID:       args[0],
				ChildID:        args[1],
				RelationshipID: relID,
			}
			// Only pass the offset when the flag was set; sequential
			// parents take none and timed parents require one.
			if cmd.Flags().Changed("offset") {
				act.StartOffsetMs = &offsetMs
			}

			next, err := mutate(cmd, app, st, s, act)
			if err != nil {
				return writeErr(cmd, err)
			}
			parent, _ := next.Templates.GetByID(args[0])
			return writeOut(cmd, app, map[string]any{"data": parent.ToRecord()})
		},
	}

	cmd.Flags().Int64Var(&offsetMs, "offset", 0, "Start offset in ms relative to the parent (timed parents)")
	cmd.Flags().StringVar(&relID, "rel", "", "Relationship id (default: generated)")
	return cmd
}

func newChildrenRemoveCmd(app *App) *cobra.Command {
	var relID string
	var detachID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove one relationship (--rel) or every link of a template (--detach)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var act store.Action
			switch {
			case relID != "" && detachID != "":
				return writeErr(cmd, errors.New("provide exactly one of --rel or --detach"))
			case relID != "":
				act = store.RemoveInstanceByRelationshipID{RelationshipID: relID}
			case detachID != "":
				act = store.RemoveInstanceByID{ID: detachID}
			default:
				return writeErr(cmd, errors.New("missing --rel or --detach"))
			}

			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := mutate(cmd, app, st, s, act); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": true}})
		},
	}

	cmd.Flags().StringVar(&relID, "rel", "", "Relationship id to remove from both endpoints")
	cmd.Flags().StringVar(&detachID, "detach", "", "Template id to detach from the whole graph")
	return cmd
}
