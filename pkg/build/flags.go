// SPDX-License-Identifier: MIT
//
// Package build carries metadata injected at compile time through linker
// flags: the binary name, semantic version, Git commit, and build timestamp.
// The values are surfaced by the CLI version output and startup logging.
package build

// Populated via -ldflags at compile time, for example:
//
//	go build -ldflags "-X tuner/pkg/build.version=v0.3.0"
var (
	name    string
	version string
	commit  string
	time    string
)

// Info is a snapshot of the build metadata.
type Info struct {
	Name    string
	Version string
	Commit  string
	Time    string
}

// Current returns the build metadata, substituting development placeholders
// for any field the linker did not set. Running `go run .` therefore works
// without ldflags.
func Current() Info {
	info := Info{
		Name:    name,
		Version: version,
		Commit:  commit,
		Time:    time,
	}
	if info.Name == "" {
		info.Name = "tuner"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Time == "" {
		info.Time = "unknown"
	}
	return info
}
