// Package project holds the reservoir-model parameter set and the project
// document it was read from. A State keeps the seven scalar inputs, the full
// JSON tree of the .wtproj file (including keys it never interprets), and the
// bookkeeping for the active project file and its directory.
//
// One State is shared per process through Instance; tests and embedders
// construct isolated ones with New.
package project
