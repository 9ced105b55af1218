// Package version reports the krakenctl build version.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags="-X github.com/muurk/krakenctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/krakenctl/internal/version.Commit=abc1234" ./cmd/krakenctl
//
// Otherwise they come from the VCS stamp in the binary's build info, and
// finally fall back to a dev version.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// Version is the release version, e.g. v0.3.0
	Version = ""
	// Commit is the short git revision, suffixed with -dirty for modified trees
	Commit = ""
)

const shortRevision = 7

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit = fromSettings(Version, Commit, info.Settings)
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings fills empty version and commit values from VCS build settings.
func fromSettings(version, commit string, settings []debug.BuildSetting) (string, string) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; commit == "" && rev != "" {
		if len(rev) > shortRevision {
			rev = rev[:shortRevision]
		}
		commit = rev
		if vcs["vcs.modified"] == "true" {
			commit += "-dirty"
		}
	}

	if version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			version = "dev-" + t.UTC().Format("20060102")
		}
	}
	return version, commit
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// ClientID returns an identifier for network peers, e.g. krakenctl/v0.3.0.
func ClientID() string {
	return "krakenctl/" + Version
}
