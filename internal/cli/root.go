package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"lasermark/internal/config"
	"lasermark/internal/registry"
	"lasermark/internal/session"
	"lasermark/internal/version"
)

// CLI holds the persistent flag state shared by all commands.
type CLI struct {
	projectPath string
	configPath  string
}

// Execute runs the lasermark CLI and returns an error if any command
// fails.
func Execute() error {
	c := &CLI{}
	var verbose bool

	root := &cobra.Command{
		Use:   "lasermark",
		Short: "Lasermark marks laser-ablation analysis points on microscopy images",
		Long: `Lasermark manages analysis points for a laser-ablation instrument:
mark targets and reference points on a microscopy image, exchange them
through CSV files, and recoordinate instrument coordinates into the
image frame using three shared reference marks.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("lasermark %s\ncommit: %s\nbuilt: %s\n",
		version.Version, version.GitCommit, version.BuildTime))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.projectPath, "project", "p", "lasermark.json", "project file")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default: lasermark.toml if present)")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.recoordinateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pointsCommand())

	return root.ExecuteContext(context.Background())
}

// loadConfig reads the TOML configuration named by --config, or the
// defaults when none is present.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openProject loads the project file and rebuilds its registry.
func (c *CLI) openProject() (*session.File, *registry.Registry, error) {
	proj, err := session.Load(c.projectPath)
	if err != nil {
		return nil, nil, err
	}
	reg, err := proj.Restore()
	if err != nil {
		return nil, nil, fmt.Errorf("restore %s: %w", c.projectPath, err)
	}
	return proj, reg, nil
}

// saveProject captures the registry back into the project and writes it.
func (c *CLI) saveProject(proj *session.File, reg *registry.Registry) error {
	proj.Capture(reg)
	return proj.Save(c.projectPath)
}

// initCommand creates a fresh project file.
func (c *CLI) initCommand() *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new project file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			proj := session.New(imagePath)
			proj.Settings = cfg.Point
			if err := proj.Save(c.projectPath); err != nil {
				return err
			}
			logger.Info("created project", "path", c.projectPath, "image", imagePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "microscopy image to annotate")
	return cmd
}
