// Package buildinfo carries version metadata injected at build time via
// -ldflags "-X".
package buildinfo

var (
	// Version release version
	Version = "unknown"
	// CommitID git commit id
	CommitID = "unknown"
	// BuildTime build timestamp
	BuildTime = "unknown"
)
