package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lasermark/internal/point"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	refStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// pointsCommand groups the subcommands that manage individual points.
func (c *CLI) pointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "List and manage the project's points",
	}
	cmd.AddCommand(c.pointsListCommand())
	cmd.AddCommand(c.pointsAddCommand())
	cmd.AddCommand(c.pointsRemoveCommand())
	cmd.AddCommand(c.pointsResetIDsCommand())
	return cmd
}

func (c *CLI) pointsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the project's points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := c.openProject()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if reg.Len() == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no points"))
				return nil
			}

			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%4s  %-7s  %7s  %7s  %8s  %5s  %s",
				"id", "label", "x", "y", "diameter", "scale", "colour")))
			for _, p := range reg.Points() {
				line := fmt.Sprintf("%4d  %-7s  %7d  %7d  %8d  %5g  %s",
					p.ID, p.Label, p.X, p.Y, p.Diameter, p.Scale, p.Colour)
				if p.Label == point.LabelRefMark {
					line = refStyle.Render(line)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	return cmd
}

func (c *CLI) pointsAddCommand() *cobra.Command {
	var (
		label      string
		sampleName string
		mountName  string
		material   string
		notes      string
		diameter   int
		scale      float64
		colour     string
	)

	cmd := &cobra.Command{
		Use:   "add <x> <y>",
		Short: "Add a point at the given image coordinates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse x %q: %w", args[0], err)
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse y %q: %w", args[1], err)
			}

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}

			p := proj.Settings.NewPoint(x, y)
			if cmd.Flags().Changed("label") {
				parsed, err := point.ParseLabel(label)
				if err != nil {
					return err
				}
				p.Label = parsed
			}
			if cmd.Flags().Changed("diameter") {
				p.Diameter = diameter
			}
			if cmd.Flags().Changed("scale") {
				p.Scale = scale
			}
			if cmd.Flags().Changed("colour") {
				p.Colour = colour
			}
			if sampleName != "" {
				p.SampleName = sampleName
			}
			if mountName != "" {
				p.MountName = mountName
			}
			if material != "" {
				p.Material = material
			}
			if notes != "" {
				p.Notes = notes
			}

			id, err := reg.Add(p)
			if err != nil {
				return err
			}
			if err := c.saveProject(proj, reg); err != nil {
				return err
			}
			logger.Info("added point", "id", id, "label", p.Label, "x", x, "y", y)
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "point label (RefMark or Spot)")
	cmd.Flags().StringVar(&sampleName, "sample", "", "sample name")
	cmd.Flags().StringVar(&mountName, "mount", "", "mount name")
	cmd.Flags().StringVar(&material, "material", "", "material")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().IntVar(&diameter, "diameter", 0, "spot diameter in micrometres")
	cmd.Flags().Float64Var(&scale, "scale", 0, "pixels per micrometre")
	cmd.Flags().StringVar(&colour, "colour", "", "hex colour, e.g. #ffff00")
	return cmd
}

func (c *CLI) pointsRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove the point with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse id %q: %w", args[0], err)
			}

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}
			if err := reg.Remove(id); err != nil {
				return err
			}
			if err := c.saveProject(proj, reg); err != nil {
				return err
			}
			logger.Info("removed point", "id", id)
			return nil
		},
	}
	return cmd
}

func (c *CLI) pointsResetIDsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-ids",
		Short: "Renumber all points 1..N and reset the id counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}
			reg.ResetIDs()
			if err := c.saveProject(proj, reg); err != nil {
				return err
			}
			logger.Info("reset point ids", "count", reg.Len())
			return nil
		},
	}
	return cmd
}
