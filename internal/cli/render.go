package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lasermark/internal/render"
)

// renderCommand writes the project's image with all points drawn on top.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <output-image>",
		Short: "Export the annotated image",
		Long: `Render draws every point over the project's image and writes the result.
The output format follows the file extension; PNG is the default for
unrecognised extensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			proj, reg, err := c.openProject()
			if err != nil {
				return err
			}
			if proj.ImagePath == "" {
				return fmt.Errorf("project %s has no image to render", c.projectPath)
			}

			img, err := render.LoadImage(proj.ImagePath)
			if err != nil {
				return err
			}

			overlaid := render.DrawOverlay(img, reg.Points())
			if err := render.SaveImage(args[0], overlaid); err != nil {
				return err
			}
			logger.Info("rendered annotated image", "path", args[0], "points", reg.Len())
			return nil
		},
	}
	return cmd
}
