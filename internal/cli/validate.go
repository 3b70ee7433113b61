package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wtlab/wtproj/internal/project"
)

// appFs is the file system used for files the CLI reads directly.
var appFs = &afero.Afero{Fs: afero.NewOsFs()}

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a project file against the project schema",
	Long: `Check that the known blocks of a project file have the expected types and
that its formatVersion, when present, is supported. Loading does not require a
valid file; missing or mistyped values fall back to defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := projectArg(args)
		if err != nil {
			return err
		}

		result, err := project.ValidateFile(appFs.Fs, path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Format.Present {
			fmt.Fprintf(out, "Format version: %s (supported: %s)\n", result.Format.Version, project.SupportedFormats)
		}
		if result.Valid {
			fmt.Fprintf(out, "%s: valid\n", path)
			return nil
		}

		fmt.Fprintf(out, "%s: %d issue(s)\n", path, len(result.Issues))
		for _, issue := range result.Issues {
			loc := issue.Path
			if loc == "" {
				loc = "/"
			}
			fmt.Fprintf(out, "  %s: %s (%s)\n", loc, issue.Message, issue.Keyword)
		}
		return fmt.Errorf("%s is not a valid project file", path)
	},
}
