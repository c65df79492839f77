package cli

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Base calendar commands",
	}
	cmd.AddCommand(newCalendarAddCmd(app))
	cmd.AddCommand(newCalendarUpdateCmd(app))
	cmd.AddCommand(newCalendarRemoveCmd(app))
	cmd.AddCommand(newCalendarListCmd(app))
	return cmd
}

func newCalendarAddCmd(app *App) *cobra.Command {
	var id string
	var start string

	cmd := &cobra.Command{
		Use:   "add <template-id>",
		Short: "Schedule a template at an absolute start time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startMs, err := parseTimeMs(start)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if id == "" {
				id = store.NewEntryID(st)
			}
			entry := model.BaseCalendarEntry{ID: id, TemplateID: args[0], StartTimeMs: startMs}
			if _, err := mutate(cmd, app, st, s, store.AddCalendarEntry{Entry: entry}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": entry})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Entry id (default: generated)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (epoch ms or RFC3339)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newCalendarUpdateCmd(app *App) *cobra.Command {
	var start string
	var templateID string

	cmd := &cobra.Command{
		Use:   "update <entry-id>",
		Short: "Update a calendar entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			entry, ok := st.Calendar[args[0]]
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "calendar entry", ID: args[0]})
			}
			if start == "" && templateID == "" {
				return writeErr(cmd, errors.New("nothing to update: pass --start and/or --template"))
			}
			if start != "" {
				ms, err := parseTimeMs(start)
				if err != nil {
					return writeErr(cmd, err)
				}
				entry.StartTimeMs = ms
			}
			if templateID != "" {
				entry.TemplateID = templateID
			}
			if _, err := mutate(cmd, app, st, s, store.UpdateCalendarEntry{Entry: entry}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": entry})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time (epoch ms or RFC3339)")
	cmd.Flags().StringVar(&templateID, "template", "", "New template id")
	return cmd
}

func newCalendarRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove a calendar entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := mutate(cmd, app, st, s, store.RemoveCalendarEntry{EntryID: args[0]}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args[0]}})
		},
	}
	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar entries ordered by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]model.BaseCalendarEntry, 0, len(st.Calendar))
			for _, e := range st.Calendar {
				out = append(out, e)
			}
			sort.Slice(out, func(i, j int) bool {
				if out[i].StartTimeMs != out[j].StartTimeMs {
					return out[i].StartTimeMs < out[j].StartTimeMs
				}
				return out[i].ID < out[j].ID
			})
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

// parseTimeMs accepts epoch milliseconds or an RFC3339 timestamp.
func parseTimeMs(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty time value")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, errors.New("invalid time, want epoch ms or RFC3339: " + s)
	}
	return t.UnixMilli(), nil
}
