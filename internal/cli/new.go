package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wtlab/wtproj/internal/project"
)

var (
	newParams  = project.DefaultParameters()
	newNoWrite bool
	newForce   bool
)

func init() {
	d := project.DefaultParameters()
	f := newCmd.Flags()
	f.Float64Var(&newParams.Porosity, "phi", d.Porosity, "Porosity φ")
	f.Float64Var(&newParams.Thickness, "h", d.Thickness, "Thickness h")
	f.Float64Var(&newParams.Viscosity, "mu", d.Viscosity, "Viscosity μ")
	f.Float64Var(&newParams.VolumeFactor, "b", d.VolumeFactor, "Volume factor B")
	f.Float64Var(&newParams.Compressibility, "ct", d.Compressibility, "Total compressibility Ct")
	f.Float64Var(&newParams.ProductionRate, "q", d.ProductionRate, "Production rate q")
	f.Float64Var(&newParams.WellRadius, "rw", d.WellRadius, "Well radius rw")
	f.BoolVar(&newNoWrite, "no-write", false, "Set the parameters without writing the project file")
	f.BoolVar(&newForce, "force", false, "Overwrite an existing project file")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create a new project",
	Long: `Create a new project from reservoir and PVT parameters.

The project file gets "reservoir" and "pvt" blocks built from the flags.
Parameters not given keep their defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !newNoWrite && !newForce {
		if info, err := appFs.Stat(path); err == nil && info.Mode().IsRegular() {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	state.SetParameters(newParams, path)

	out := cmd.OutOrStdout()
	if newNoWrite {
		fmt.Fprintf(out, "Parameters set for %s (not written)\n", path)
		return nil
	}

	if err := state.Save(); err != nil {
		return fmt.Errorf("writing new project: %w", err)
	}
	rememberProject(path)
	fmt.Fprintf(out, "Created %s\n", path)
	return nil
}
