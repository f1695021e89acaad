// Package version holds build information for gridpick.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info returns a one-line summary of the build, e.g.
// "v0.3.0 (revision 1a2b3c4, go1.25.0 linux/amd64)".
func Info() string {
	info := fmt.Sprintf("%s (revision %s, %s %s/%s", GetVersion(), Revision, GoVersion, GoOS, GoArch)
	if BuildDate != "" {
		info += ", built " + BuildDate
		if BuildUser != "" {
			info += " by " + BuildUser
		}
	}

	return info + ")"
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
