// Package version provides the hgview build version.
package version

import "fmt"

// Version and Commit are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/sergeknystautas/hgview/internal/version.Version=1.2.3 -X github.com/sergeknystautas/hgview/internal/version.Commit=abc123" ./cmd/hgview
//
// Version defaults to "dev" for local development builds.
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version with the commit appended when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
