// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/mmonline245-max/unitstool/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the release of the unitstool binary.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("unitstool %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
