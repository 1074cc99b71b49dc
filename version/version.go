package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/idlc/errors"
)

// Build information, set at build time via ldflags.
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	// Version is the semantic version when the build is tagged
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("idlc %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("idlc dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// IsDev reports builds without a release version.
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

// Satisfies reports whether the running version meets constraint, such as
// ">= 1.2, < 2". Development builds satisfy every constraint.
func Satisfies(constraint string) (bool, error) {
	return Get().Satisfies(constraint)
}

func (i Info) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	if i.IsDev() {
		return true, nil
	}
	v, err := semver.NewVersion(strings.TrimPrefix(i.Version, "v"))
	if err != nil {
		return false, errors.Wrapf(err, "invalid build version %q", i.Version)
	}
	return c.Check(v), nil
}
