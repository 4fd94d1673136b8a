// Package version carries build metadata. Values are overridden at link time:
//
//	go build -ldflags "-X github.com/kailas-cloud/shopagent/internal/version.Version=v1.2.0"
package version

import "fmt"

//nolint:gochecknoglobals // set by the linker
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata for logs and the health endpoint.
func String() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, Date)
}
