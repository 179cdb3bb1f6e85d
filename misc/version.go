// Package misc holds small helpers shared by all commands.
package misc

import "runtime/debug"

const appName = "dpc"

// Set at build time via -ldflags when building releases.
var (
	version = "development"
	gitHash = ""
)

// GetAppName returns canonical program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision the program was built from. When not
// overwritten at build time attempts to read it from the build info.
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
