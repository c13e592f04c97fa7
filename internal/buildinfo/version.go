// Package buildinfo reports the version of the treejson binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/ConradIrwin/treejson/internal/buildinfo.Version=v1.0.0 \
//	    -X github.com/ConradIrwin/treejson/internal/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/ConradIrwin/treejson/internal/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Anything left unset is taken from the module and VCS details the Go
// toolchain records in the binary, so `go install` builds report a version
// too.
package buildinfo

import (
	"cmp"
	"fmt"
	"runtime/debug"
)

// Set via ldflags.
var (
	Version string
	Commit  string
	Date    string
)

var readBuildInfo = debug.ReadBuildInfo

// Info describes the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Read returns the ldflags values, filling any gaps from the embedded build
// information and finally from "dev", "none" and "unknown".
func Read() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.Date == "":
				info.Date = s.Value
			}
		}
	}
	info.Version = cmp.Or(info.Version, "dev")
	info.Commit = cmp.Or(info.Commit, "none")
	info.Date = cmp.Or(info.Date, "unknown")
	return info
}

// Template returns the version template for cobra.
func (i Info) Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
