// Package version reports build information for the jangat binaries
package version

import "runtime/debug"

// BuildInfo describes one build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// Set with -ldflags "-X 'jangat/internal/core/version.version=v0.1.0'
// -X 'jangat/internal/core/version.commit=abcd' -X 'jangat/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuild is swapped in tests
var readBuild = debug.ReadBuildInfo

// Info returns the build information for service. When ldflags left the commit unset,
// the VCS revision stamped by the toolchain is used instead
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	info, ok := readBuild()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" && s.Value != "" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" && s.Value != "" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
