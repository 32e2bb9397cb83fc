// Package version reports build information set with -ldflags at link time, falling back to
// the module build info.
package version

import (
	"runtime/debug"
)

// Set with -ldflags "-X github.com/ltilibrary/lti-go/internal/version.version=..." etc.
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

// Get returns the build information.
func Get() Info {
	info := Info{Version: version, BuildDate: buildDate, GitCommit: gitCommit}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "unknown" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "unknown" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}
