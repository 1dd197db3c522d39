// Package version reports the docsmith build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/docsmith/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Resolved returns Version, falling back to the main module version recorded
// by `go install` when no ldflags were given.
func Resolved() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Generator is the value shown in page footers, e.g. "docsmith v1.0.0".
func Generator() string {
	return "docsmith " + Resolved()
}

// String renders the full version line printed by --version.
func String() string {
	return fmt.Sprintf("docsmith %s (commit %s, built %s)", Resolved(), GitCommit, BuildTime)
}
