// Package version holds build metadata for the autoinclude CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders Version with major, minor and patch in their own colors.
// A pre-release suffix stays uncolored.
func Colored() string {
	core, suffix, found := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", len(partColors))
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if found {
		out += "-" + suffix
	}
	return out
}

// Details returns the optional metadata lines that are set, in a fixed
// order: commit, message, built.
func Details() []string {
	var lines []string
	if GitCommit != "" {
		lines = append(lines, "commit:  "+GitCommit)
	}
	if GitMessage != "" {
		lines = append(lines, "message: "+GitMessage)
	}
	if BuildDate != "" {
		lines = append(lines, "built:   "+BuildDate)
	}
	return lines
}
