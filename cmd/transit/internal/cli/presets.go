package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadPresets(cmd)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, name := range s.Names() {
				p, _ := s.Get(name)
				kinds := make([]string, len(p.Springs))
				for i, sp := range p.Springs {
					kinds[i] = sp.Kind()
				}
				rows = append(rows, []string{name, p.Schedule.String(), strings.Join(kinds, "\n"), p.Description})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(styleDim).
				Headers("Preset", "Schedule", "Springs", "Description").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return styleHeader
					case col == 0:
						return styleTitle
					case col == 3:
						return styleDim
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
