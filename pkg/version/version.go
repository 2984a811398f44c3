// Package version reports the build version of cpmod.
package version

import (
	"fmt"
	"strings"
)

// Set at build time with -ldflags "-X github.com/lucas-albers-lz4/cpmod/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

// normalize strips a leading 'v' and any build metadata after '+'.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	//nolint:nilaway // strings.Split always returns non-nil slice
	return strings.Split(v, "+")[0]
}

// String returns the version line printed by --version.
func String() string {
	if Commit == "" || Commit == "none" {
		return normalize(Version)
	}
	return fmt.Sprintf("%s (commit %s)", normalize(Version), Commit)
}
