package cli

import (
	"github.com/spf13/cobra"

	"lasermark/internal/csvio"
)

// importCommand loads a native-dialect CSV into the project, replacing
// the current points.
func (c *CLI) importCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import points from a native CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}

			points, skipped, err := csvio.ImportNative(args[0], proj.Settings)
			if err != nil {
				return err
			}

			// Imports replace the session's points wholesale.
			reg.Clear()
			reg.ResetIDs()
			for _, p := range points {
				if _, err := reg.Add(p); err != nil {
					return err
				}
			}

			proj.CSVPath = args[0]
			if err := c.saveProject(proj, reg); err != nil {
				return err
			}

			logger.Info("imported points", "count", len(points), "skipped", skipped)
			if skipped > 0 {
				logger.Warn("some rows could not be parsed", "skipped", skipped)
			}
			return nil
		},
	}
	return cmd
}

// exportCommand writes the project's points to a native-dialect CSV.
func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <csv>",
		Short: "Export points to a native CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}
			if !reg.HasReferenceTriplet() {
				logger.Warn("fewer than 3 RefMark points; the instrument cannot recoordinate this file")
			}

			if err := csvio.ExportNative(args[0], reg.Points()); err != nil {
				return err
			}

			proj.CSVPath = args[0]
			if err := c.saveProject(proj, reg); err != nil {
				return err
			}
			logger.Info("exported points", "count", reg.Len(), "path", args[0])
			return nil
		},
	}
	return cmd
}
