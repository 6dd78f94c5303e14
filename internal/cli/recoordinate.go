package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lasermark/internal/csvio"
	"lasermark/internal/recoordinate"
	"lasermark/internal/render"
)

// recoordinateCommand ingests an instrument-dialect CSV, fits the affine
// transform against the project's reference points, and inserts the
// recoordinated targets.
func (c *CLI) recoordinateCommand() *cobra.Command {
	var outputCSV string

	cmd := &cobra.Command{
		Use:   "recoordinate <instrument-csv>",
		Short: "Recoordinate an instrument CSV into the image frame",
		Long: `Recoordinate translates the coordinates in an instrument CSV into the
frame of the project's image. The file's first three reference rows are
paired positionally with the project's first three RefMark points, in
order; place and order the physical marks consistently on both sides.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}
			if proj.ImagePath == "" {
				return fmt.Errorf("project %s has no image; recoordination needs the image dimensions", c.projectPath)
			}
			width, height, err := render.ImageSize(proj.ImagePath)
			if err != nil {
				return err
			}

			result, err := recoordinate.Run(reg, args[0], recoordinate.Options{
				Format:      cfg.Instrument,
				Defaults:    proj.Settings,
				ImageWidth:  width,
				ImageHeight: height,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			if err := c.saveProject(proj, reg); err != nil {
				return err
			}

			if outputCSV != "" {
				if err := csvio.ExportInstrument(outputCSV, result.File); err != nil {
					return err
				}
				logger.Info("wrote recoordinated instrument file", "path", outputCSV)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputCSV, "output", "o", "", "also write the recoordinated instrument CSV here")
	return cmd
}
