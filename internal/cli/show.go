package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/wtlab/wtproj/internal/project"
)

var showFormat string

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show the parameters of a project",
	Long:  `Load a project file and print its parameters, directory and fitting result. Without a path the last project is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

// projectView is the printable summary of a loaded project.
type projectView struct {
	File       string               `json:"file" yaml:"file"`
	Dir        string               `json:"dir" yaml:"dir"`
	Parameters project.ParameterSet `json:"parameters" yaml:"parameters"`
	Fitting    map[string]any       `json:"fitting" yaml:"fitting"`
	Keys       []string             `json:"keys" yaml:"keys"`
}

func runShow(cmd *cobra.Command, args []string) error {
	if showFormat != "text" && showFormat != "json" && showFormat != "yaml" {
		return fmt.Errorf("unknown format %q (use text, json or yaml)", showFormat)
	}

	path, err := projectArg(args)
	if err != nil {
		return err
	}
	if err := loadProject(path); err != nil {
		return err
	}

	doc := state.Document()
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	view := projectView{
		File:       state.ProjectFilePath(),
		Dir:        state.ProjectPath(),
		Parameters: state.Parameters(),
		Fitting:    state.FittingResult(),
		Keys:       keys,
	}

	out := cmd.OutOrStdout()
	switch showFormat {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling project: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case "yaml":
		fitting, err := plainObject(view.Fitting)
		if err != nil {
			return err
		}
		view.Fitting = fitting
		data, err := yaml.Marshal(view)
		if err != nil {
			return fmt.Errorf("marshaling project: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	default:
		printProjectText(out, view)
		return nil
	}
}

func printProjectText(out io.Writer, v projectView) {
	fmt.Fprintf(out, "Project:   %s\n", v.File)
	fmt.Fprintf(out, "Directory: %s\n\n", v.Dir)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tSYMBOL\tVALUE")
	p := v.Parameters
	fmt.Fprintf(w, "porosity\tφ\t%g\n", p.Porosity)
	fmt.Fprintf(w, "thickness\th\t%g\n", p.Thickness)
	fmt.Fprintf(w, "viscosity\tμ\t%g\n", p.Viscosity)
	fmt.Fprintf(w, "volumeFactor\tB\t%g\n", p.VolumeFactor)
	fmt.Fprintf(w, "compressibility\tCt\t%g\n", p.Compressibility)
	fmt.Fprintf(w, "productionRate\tq\t%g\n", p.ProductionRate)
	fmt.Fprintf(w, "wellRadius\trw\t%g\n", p.WellRadius)
	w.Flush()

	if len(v.Fitting) == 0 {
		fmt.Fprintln(out, "\nFitting:   none")
	} else {
		fmt.Fprintf(out, "\nFitting:   %d field(s)\n", len(v.Fitting))
	}
}

// plainObject converts json.Number leaves to float64 so YAML output shows
// numbers rather than quoted strings.
func plainObject(m map[string]any) (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding fitting block: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding fitting block: %w", err)
	}
	return out, nil
}
