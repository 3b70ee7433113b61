package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// KeyFormatVersion is the optional top-level key naming the project file
// format a document was written for.
const KeyFormatVersion = "formatVersion"

// SupportedFormats is the range of format versions this build reads.
const SupportedFormats = ">= 1.0.0, < 2.0.0"

// FormatCheck is the outcome of CheckFormatVersion.
type FormatCheck struct {
	Version    string // as found in the document; empty when absent
	Present    bool
	Compatible bool
}

// CheckFormatVersion inspects the document's formatVersion key. A document
// without one predates versioning and is treated as compatible. The error
// return is for values that are not strings or not semantic versions.
func CheckFormatVersion(doc Document) (FormatCheck, error) {
	raw, ok := doc[KeyFormatVersion]
	if !ok {
		return FormatCheck{Compatible: true}, nil
	}

	str, ok := raw.(string)
	if !ok {
		return FormatCheck{Present: true}, fmt.Errorf("%s must be a string, got %T", KeyFormatVersion, raw)
	}

	v, err := parseSemver(str)
	if err != nil {
		return FormatCheck{Version: str, Present: true}, fmt.Errorf("parsing %s %q: %w", KeyFormatVersion, str, err)
	}

	c, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return FormatCheck{Version: str, Present: true}, fmt.Errorf("parsing supported range: %w", err)
	}

	return FormatCheck{
		Version:    str,
		Present:    true,
		Compatible: c.Check(v),
	}, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
