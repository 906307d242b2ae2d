package buildinfo

import "runtime"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for UI/logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Banner is the one-line version string printed by -version.
func Banner() string {
	return "lumen " + Short() + " (commit " + Commit + ", built " + Date + ", " + runtime.Version() + ")"
}
