// Package buildinfo carries the engine version stamped in by the linker.
// The version also salts diagram cache keys, so a new release never serves
// geometry computed by an older one.
//
//	go build -ldflags "-X github.com/matzehuels/celldraw/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/celldraw/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

// Get returns the current build stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Built: Date}
}

// String returns the multi-line form printed by "celldraw version".
func (i Info) String() string {
	return fmt.Sprintf("celldraw %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Built)
}

// String returns the formatted build information.
func String() string { return Get().String() }

// Template returns the cobra version template.
func Template() string { return Get().String() + "\n" }
