package fetchx

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	// Version is the fetchx release, overridable with -ldflags.
	Version = "v0.3.0"
	// GitCommit is the git SHA (inject via -ldflags at build time).
	GitCommit = "unknown"
	// BuildDate is the build timestamp (inject via -ldflags).
	BuildDate = "unknown"
	// GoVersion records the Go toolchain version used.
	GoVersion = runtime.Version()
)

// GetVersion returns a human-readable version string.
func GetVersion() string {
	return fmt.Sprintf("FetchX %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildDate, GoVersion)
}

// UserAgent is the User-Agent header sent when a request does not set one.
func UserAgent() string {
	return fmt.Sprintf("fetchx/%s (%s; %s/%s)", strings.TrimPrefix(Version, "v"), GoVersion, runtime.GOOS, runtime.GOARCH)
}

// GetVersionInfo returns version metadata as a map for logging / metrics.
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
		"go_version": GoVersion,
		"user_agent": UserAgent(),
	}
}
