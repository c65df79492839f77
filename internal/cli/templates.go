package cli

import (
	"errors"
	"strings"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Template commands",
	}
	cmd.AddCommand(newTemplatesCreateCmd(app))
	cmd.AddCommand(newTemplatesListCmd(app))
	cmd.AddCommand(newTemplatesShowCmd(app))
	cmd.AddCommand(newTemplatesDeleteCmd(app))
	return cmd
}

func newTemplatesCreateCmd(app *App) *cobra.Command {
	var id string
	var name string
	var durationMs int64
	var kind string
	var vars []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			k, err := parseKindFlag(kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			variables, err := parseVars(vars)
			if err != nil {
				return writeErr(cmd, err)
			}
			if id == "" {
				id = store.NewTemplateID(st)
			}

			tpl := model.Template{
				ID:         id,
				Name:       strings.TrimSpace(name),
				DurationMs: durationMs,
				Kind:       k,
				Variables:  variables,
			}
			next, err := mutate(cmd, app, st, s, store.CreateTemplate{Template: tpl})
			if err != nil {
				return writeErr(cmd, err)
			}
			created, _ := next.Templates.GetByID(id)
			return writeOut(cmd, app, map[string]any{"data": created.ToRecord()})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Template id (default: generated)")
	cmd.Flags().StringVar(&name, "name", "", "Template name")
	cmd.Flags().Int64Var(&durationMs, "duration", 0, "Duration in milliseconds")
	cmd.Flags().StringVar(&kind, "kind", "leaf", "Template kind (leaf|timed|sequential)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variable as key=value (repeatable)")
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]model.TemplateRecord, 0, len(st.Templates))
			for _, t := range st.Templates {
				if kind != "" && string(model.ChildKind(t)) != kind {
					continue
				}
				out = append(out, t.ToRecord())
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (leaf|timed|sequential)")
	return cmd
}

func newTemplatesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := st.Templates.GetByID(args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "template", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": t.ToRecord()})
		},
	}
	return cmd
}

func newTemplatesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a template and every link touching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actions := []store.Action{store.DeleteTemplateByID{ID: args[0]}}
			// Calendar entries for the deleted template go with it.
			for id, e := range st.Calendar {
				if e.TemplateID == args[0] {
					actions = append(actions, store.RemoveCalendarEntry{EntryID: id})
				}
			}
			if _, err := mutate(cmd, app, st, s, actions...); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func parseKindFlag(s string) (model.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leaf":
		return model.KindLeaf, nil
	case "timed":
		return model.KindTimed, nil
	case "sequential", "sequence":
		return model.KindSequential, nil
	default:
		return "", errors.New("invalid --kind: want leaf, timed or sequential")
	}
}

func parseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.New("invalid --var, want key=value: " + p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
