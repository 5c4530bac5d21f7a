// Package version reports the stylegen build identity.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/layera/stylegen/internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = "unknown"
	// BuildTime is RFC3339.
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Modified  bool      `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// GetBuildInfo merges the linker-provided values with the VCS stamp the Go
// toolchain embeds in the binary.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: parseTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
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
			if info.BuildTime.IsZero() {
				info.BuildTime = parseTime(s.Value)
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// GetShortVersion returns "v1.2.3 (abc1234)", "dev-abc1234" or "dev".
func GetShortVersion() string {
	info := GetBuildInfo()
	if info.GitCommit == "unknown" || len(info.GitCommit) < 7 {
		return info.Version
	}
	commit := info.GitCommit[:7]
	if info.Version == "dev" {
		return "dev-" + commit
	}
	return fmt.Sprintf("%s (%s)", info.Version, commit)
}

// String renders the build info one field per line.
func (b BuildInfo) String() string {
	lines := []string{"Version: " + b.Version}
	if b.GitCommit != "unknown" {
		commit := b.GitCommit
		if b.Modified {
			commit += " (modified)"
		}
		lines = append(lines, "Commit: "+commit)
	}
	if !b.BuildTime.IsZero() {
		lines = append(lines, "Built: "+b.BuildTime.Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+b.GoVersion, "Platform: "+b.Platform)
	return strings.Join(lines, "\n")
}

// IsRelease reports whether the binary carries a release version.
func IsRelease() bool {
	v := GetBuildInfo().Version
	return v != "dev" && !strings.HasPrefix(v, "dev-")
}

func parseTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
