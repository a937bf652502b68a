// Package buildinfo carries version metadata stamped into release binaries.
package buildinfo

// Injected via ldflags by the release build. Empty for local builds, in
// which case the version command falls back to module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
