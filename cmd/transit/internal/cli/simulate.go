package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/runner"
)

func newSimulateCmd() *cobra.Command {
	var (
		from, to float64
		every    int
	)

	cmd := &cobra.Command{
		Use:   "simulate [preset]",
		Short: "Print the sampled trajectory of each spring in a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if every < 1 {
				return errors.Configf("cli.simulate", errors.ErrInvalidParams, "--every must be >= 1, got %d", every)
			}
			name, p, err := pickPreset(cmd, args)
			if err != nil {
				return err
			}
			pf, pt := presetRange(p)
			if !cmd.Flags().Changed("from") {
				from = pf
			}
			if !cmd.Flags().Changed("to") {
				to = pt
			}

			logger := loggerFromContext(cmd.Context())
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styleTitle.Render(name)+"  "+styleDim.Render(p.Description))

			for i, s := range p.Springs {
				in, err := s.Integrator()
				if err != nil {
					return err
				}
				tr := runner.Simulate(in, from, to, 0, 0)
				logger.Debug("simulated", "spring", s.Label(i), "samples", len(tr.Samples), "duration", tr.Duration())
				if tr.Truncated {
					logger.Warn("spring did not settle", "spring", s.Label(i), "samples", len(tr.Samples))
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, renderTrajectory(s.Label(i), s.Kind(), tr, every, from, to))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "start position (default: the preset range)")
	cmd.Flags().Float64Var(&to, "to", 1, "target position (default: the preset range)")
	cmd.Flags().IntVar(&every, "every", 6, "print every nth sample")
	return cmd
}

// renderTrajectory prints every nth sample of tr, and always the last.
func renderTrajectory(label, kind string, tr runner.Trajectory, every int, from, to float64) string {
	var rows [][]string
	for i, s := range tr.Samples {
		if i%every != 0 && i != len(tr.Samples)-1 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%dms", s.Time.Milliseconds()),
			fmt.Sprintf("%.4f", s.Position),
			fmt.Sprintf("%.4f", s.Velocity),
			styleBar.Render(bar(s.Position, from, to)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("time", "position", "velocity", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 || col == 2 {
				return styleValue.Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(styleTitle.Render(label))
	b.WriteString("  ")
	b.WriteString(styleDim.Render(fmt.Sprintf("%s · %d samples · %s", kind, len(tr.Samples), tr.Duration())))
	if tr.Truncated {
		b.WriteString("  ")
		b.WriteString(styleWarning.Render("truncated"))
	}
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}
