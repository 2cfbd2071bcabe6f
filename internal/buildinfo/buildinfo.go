// Package buildinfo holds version information injected at link time:
//
//	go build -ldflags "-X github.com/dankomiocevic/tally/internal/buildinfo.Version=v1.0.0"
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
