package heap

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// versionString is the allocator's ABI version tag, stamped into
// show_alloc_mem_ex's header. Parsed through semver at package init purely
// to validate the literal — the same belt-and-suspenders the teacher
// applies to version strings pulled from package manifests
// (cmd/orizon/pkg/commands/outdated.go), repurposed here for a constant
// instead of a dependency's declared version.
const versionString = "1.0.0"

var version = mustParseVersion(versionString)

func mustParseVersion(s string) *semver.Version {
	v, err := semver.NewVersion(s)
	if err != nil {
		panic(fmt.Sprintf("ftmalloc: invalid version string %q: %v", s, err))
	}

	return v
}
