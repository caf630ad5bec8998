// Package misc keeps build time information about the program.
package misc

import (
	"runtime/debug"
)

// Set by the linker: -X mkbook/misc.version=... -X mkbook/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

const appName = "mkbook"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from. When linker did not
// provide it, VCS information embedded by go build is used.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
