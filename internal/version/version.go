// Package version holds the build version, set with
// -ldflags "-X github.com/mouse-blink/goistanbul/internal/version.Version=v1.2.3".
package version

import "runtime/debug"

// Version is the release tag of this build.
var Version = "dev"

// String returns Version, or the module version recorded by the go tool when
// the binary was installed with go install.
func String() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}
