package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wtlab/wtproj/internal/project"
)

// ProjectTools holds the State the tool handlers act on.
type ProjectTools struct {
	State *project.State
}

// --- Input types ---

type StatusInput struct{}

type NewProjectInput struct {
	Path            string   `json:"path" jsonschema:"Project file path or directory for the new project"`
	Porosity        *float64 `json:"porosity,omitempty" jsonschema:"Porosity φ (default 0.05)"`
	Thickness       *float64 `json:"thickness,omitempty" jsonschema:"Thickness h (default 20)"`
	Viscosity       *float64 `json:"viscosity,omitempty" jsonschema:"Viscosity μ (default 0.5)"`
	VolumeFactor    *float64 `json:"volumeFactor,omitempty" jsonschema:"Volume factor B (default 1.05)"`
	Compressibility *float64 `json:"compressibility,omitempty" jsonschema:"Total compressibility Ct (default 5e-4)"`
	ProductionRate  *float64 `json:"productionRate,omitempty" jsonschema:"Production rate q (default 50)"`
	WellRadius      *float64 `json:"wellRadius,omitempty" jsonschema:"Well radius rw (default 0.1)"`
	Write           bool     `json:"write,omitempty" jsonschema:"Write the new project file immediately"`
}

type LoadProjectInput struct {
	Path string `json:"path" jsonschema:"Path to the .wtproj file"`
}

type GetParametersInput struct{}

type GetFittingResultInput struct{}

type SaveFittingResultInput struct {
	Fitting map[string]any `json:"fitting" jsonschema:"Fitting result block, stored as given"`
}

type ValidateProjectInput struct{}

// --- Output shapes ---

type statusView struct {
	Loaded   bool   `json:"loaded"`
	File     string `json:"file"`
	Dir      string `json:"dir"`
	Fitting  bool   `json:"hasFitting"`
	Defaults bool   `json:"usingDefaults"`
}

// --- Handlers ---

func (t *ProjectTools) Status(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.status())
}

func (t *ProjectTools) NewProject(_ context.Context, _ *mcp.CallToolRequest, input NewProjectInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("Project path is required"), nil, nil
	}

	p := project.DefaultParameters()
	setIf(&p.Porosity, input.Porosity)
	setIf(&p.Thickness, input.Thickness)
	setIf(&p.Viscosity, input.Viscosity)
	setIf(&p.VolumeFactor, input.VolumeFactor)
	setIf(&p.Compressibility, input.Compressibility)
	setIf(&p.ProductionRate, input.ProductionRate)
	setIf(&p.WellRadius, input.WellRadius)

	t.State.SetParameters(p, input.Path)

	if input.Write {
		if err := t.State.Save(); err != nil {
			return toolError("Project set but not written: %v", err), nil, nil
		}
	}
	return toolJSON(t.status())
}

func (t *ProjectTools) LoadProject(_ context.Context, _ *mcp.CallToolRequest, input LoadProjectInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("Project path is required"), nil, nil
	}
	if err := t.State.LoadProject(input.Path); err != nil {
		return toolError("Failed to load project: %v", err), nil, nil
	}
	return toolJSON(t.status())
}

func (t *ProjectTools) GetParameters(_ context.Context, _ *mcp.CallToolRequest, _ GetParametersInput) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.State.Parameters())
}

func (t *ProjectTools) GetFittingResult(_ context.Context, _ *mcp.CallToolRequest, _ GetFittingResultInput) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.State.FittingResult())
}

func (t *ProjectTools) SaveFittingResult(_ context.Context, _ *mcp.CallToolRequest, input SaveFittingResultInput) (*mcp.CallToolResult, any, error) {
	if !t.State.HasLoadedProject() || t.State.ProjectFilePath() == "" {
		return toolError("No active project: load or create one first"), nil, nil
	}
	if err := t.State.SaveFittingResult(input.Fitting); err != nil {
		return toolError("Fitting result kept in memory but not written: %v", err), nil, nil
	}
	return toolJSON(map[string]string{"saved": t.State.ProjectFilePath()})
}

func (t *ProjectTools) ValidateProject(_ context.Context, _ *mcp.CallToolRequest, _ ValidateProjectInput) (*mcp.CallToolResult, any, error) {
	if !t.State.HasLoadedProject() {
		return toolError("No active project: load or create one first"), nil, nil
	}
	data, err := t.State.Document().Marshal()
	if err != nil {
		return toolError("Failed to encode project: %v", err), nil, nil
	}
	result, err := project.Validate(data)
	if err != nil {
		return toolError("Failed to validate project: %v", err), nil, nil
	}
	return toolJSON(result)
}

func (t *ProjectTools) status() statusView {
	return statusView{
		Loaded:   t.State.HasLoadedProject(),
		File:     t.State.ProjectFilePath(),
		Dir:      t.State.ProjectPath(),
		Fitting:  len(t.State.FittingResult()) > 0,
		Defaults: t.State.Parameters() == project.DefaultParameters(),
	}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
