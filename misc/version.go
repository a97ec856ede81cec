// Package misc keeps program identity which is set at build time.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X cumd/misc.version=... -X cumd/misc.gitHash=...".
var (
	version = ""
	gitHash = ""
)

const appName = "cumd"

func GetAppName() string {
	return appName
}

// GetVersion returns program version. When not stamped by the linker module
// version from build information is used.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
