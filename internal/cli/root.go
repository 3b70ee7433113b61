package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wtlab/wtproj/internal/branding"
	"github.com/wtlab/wtproj/internal/config"
	"github.com/wtlab/wtproj/internal/logging"
	"github.com/wtlab/wtproj/internal/project"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logger *logging.Logger
	state  *project.State

	// newState supplies the State commands operate on.
	newState = project.Instance
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps the reservoir-model parameters of a well-test project
(porosity, thickness, viscosity, volume factor, compressibility, rate, well radius)
and reads and writes the .wtproj project file without dropping content it does not know.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		cfg, err := config.Logging()
		if err != nil {
			return err
		}
		l, err := logging.NewLogger(cfg, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logging.SetDefault(l)
		logger = l

		state = newState()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// projectArg returns the project file named on the command line, falling
// back to the last project recorded in the user config.
func projectArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if last := config.Get(config.KeyLastProject); last != "" {
		return last, nil
	}
	return "", fmt.Errorf("no project file given and no last project recorded; pass a %s path", branding.ProjectExt())
}

// loadProject loads path into the shared state and records it as the last project.
func loadProject(path string) error {
	if err := state.LoadProject(path); err != nil {
		return err
	}
	rememberProject(path)
	return nil
}

func rememberProject(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := config.Set(config.KeyLastProject, abs); err != nil {
		logger.Warn("could not record last project", zap.String("path", abs), zap.Error(err))
	}
}
