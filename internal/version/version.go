// Package version holds build metadata for the metair binary.
// The variables are set at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"
	// GitCommit is the optional source revision.
	GitCommit = ""
	// BuildDate is the optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Anything
// after the patch number (pre-release, build) is left plain.
func Colored() string {
	core, rest := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, rest = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + rest
}

// Line is the one-line description printed by `metair version`.
func Line(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	out := "metair " + v
	if GitCommit != "" {
		out += " (" + GitCommit
		if BuildDate != "" {
			out += ", " + BuildDate
		}
		out += ")"
	}
	return out
}
