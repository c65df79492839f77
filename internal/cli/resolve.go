package cli

import (
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/resolve"

	"github.com/spf13/cobra"
)

type chainNode struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	DurationMs   int64   `json:"durationMs"`
	ActivationMs int64   `json:"activationMs"`
	Progress     float64 `json:"progress"`
}

func newResolveCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the active root-to-leaf chain at a point in time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nowMs := time.Now().UnixMilli()
			if at != "" {
				ms, err := parseTimeMs(at)
				if err != nil {
					return writeErr(cmd, err)
				}
				nowMs = ms
			}

			st, _, err := loadState(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			r := resolve.New(app.logger(cmd))
			chain := r.Chain(st.Templates, st.Calendar, nowMs)

			nodes := make([]chainNode, 0, len(chain))
			for _, t := range chain {
				node := chainNode{
					ID:         t.ID,
					Name:       t.Name,
					Kind:       string(model.ChildKind(t)),
					DurationMs: t.DurationMs,
				}
				if abs, ok := resolve.CumulativeStart(chain, t.ID, st.Calendar, nowMs); ok {
					node.ActivationMs = abs
					node.Progress = resolve.Progress(t, nowMs, abs)
				}
				nodes = append(nodes, node)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"atMs":  nowMs,
				"chain": nodes,
			}})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Point in time (epoch ms or RFC3339; default: now)")
	return cmd
}
