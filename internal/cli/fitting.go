package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wtlab/wtproj/internal/project"
)

var fittingFile string

func init() {
	fittingSetCmd.Flags().StringVarP(&fittingFile, "file", "f", "-", "JSON file holding the fitting block, or - for stdin")
	fittingCmd.AddCommand(fittingGetCmd)
	fittingCmd.AddCommand(fittingSetCmd)
	rootCmd.AddCommand(fittingCmd)
}

var fittingCmd = &cobra.Command{
	Use:   "fitting",
	Short: "Read or store the fitting result of a project",
}

var fittingGetCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Print the fitting result block as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := projectArg(args)
		if err != nil {
			return err
		}
		if err := loadProject(path); err != nil {
			return err
		}

		data, err := json.MarshalIndent(state.FittingResult(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling fitting result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var fittingSetCmd = &cobra.Command{
	Use:   "set [path]",
	Short: "Store a fitting result block in the project file",
	Long: `Replace the "fitting" block of a project with a JSON object read from
--file (or stdin). All other content of the project file is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := readFittingBlock(cmd.InOrStdin(), fittingFile)
		if err != nil {
			return err
		}

		path, err := projectArg(args)
		if err != nil {
			return err
		}
		if err := loadProject(path); err != nil {
			return err
		}

		if err := state.SaveFittingResult(block); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved fitting result to %s\n", state.ProjectFilePath())
		return nil
	},
}

func readFittingBlock(stdin io.Reader, file string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" || file == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = appFs.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading fitting block: %w", err)
	}

	block, err := project.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("fitting block must be a JSON object: %w", err)
	}
	return block, nil
}
