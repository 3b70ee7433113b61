// Package server exposes the shared project State as MCP tools so agents and
// other processes can read parameters and store fitting results.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wtlab/wtproj/internal/branding"
	"github.com/wtlab/wtproj/internal/project"
)

// New creates an MCP server whose tools all operate on state.
func New(state *project.State, version string) *mcp.Server {
	pt := &ProjectTools{State: state}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    branding.CLIName(),
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "project_status",
		Description: "Report whether a project is active, its file and directory",
	}, pt.Status)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "new_project",
		Description: "Start a new project from reservoir and PVT parameters (nothing is written until a save)",
	}, pt.NewProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "load_project",
		Description: "Load a .wtproj project file and make it the active project",
	}, pt.LoadProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_parameters",
		Description: "Get the seven reservoir-model parameters of the active project",
	}, pt.GetParameters)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_fitting_result",
		Description: "Get the fitting result block stored in the active project",
	}, pt.GetFittingResult)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "save_fitting_result",
		Description: "Store a fitting result block in the active project and write the project file",
	}, pt.SaveFittingResult)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "validate_project",
		Description: "Check the active project document against the project schema and format range",
	}, pt.ValidateProject)

	return srv
}
