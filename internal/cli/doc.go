// Package cli defines the Cobra command tree for the wtproj CLI. Each file
// registers one top-level command (new, show, fitting, etc.) with the root
// command. Commands share one project.State per process and delegate to
// internal packages; they only handle arguments, output formatting and
// remembering the last project.
package cli
