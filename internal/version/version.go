// Package version describes the running techcat build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info contains version information about techcat.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	// GenAI is the version of the Gemini SDK linked into the binary.
	GenAI string `json:"genai,omitempty"`
}

const genaiModule = "google.golang.org/genai"

// NewInfo creates an Info from the values injected with -ldflags. Values
// left at their defaults are filled from the module build information, so
// a binary built with go install still reports its version and revision.
func NewInfo(version, commit, date string) *Info {
	info := &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}
	return info
}

func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "none" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.Date == "unknown" {
				i.Date = s.Value
			}
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path == genaiModule {
			i.GenAI = dep.Version
		}
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("techcat %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	s := fmt.Sprintf(`techcat %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
	if i.GenAI != "" {
		s += "\n  GenAI:    " + i.GenAI
	}
	return s
}
