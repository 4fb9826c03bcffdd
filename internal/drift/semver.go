package drift

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// NextVersion applies a suggested bump to a concrete semantic version.
// The input may carry a leading "v" or not; the result matches the input's
// style. Prerelease and build suffixes are dropped from the result.
func NextVersion(current string, bump Bump) (string, error) {
	hadPrefix := strings.HasPrefix(current, "v")
	v := current
	if !hadPrefix {
		v = "v" + v
	}

	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid semantic version %q", current)
	}

	canonical := semver.Canonical(v)
	if i := strings.IndexAny(canonical, "-+"); i >= 0 {
		canonical = canonical[:i]
	}

	parts := strings.SplitN(strings.TrimPrefix(canonical, "v"), ".", 3)
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	patch, _ := strconv.Atoi(parts[2])

	switch bump {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	case BumpPatch:
		patch++
	default:
		return "", fmt.Errorf("unknown version bump %q", bump)
	}

	next := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if hadPrefix {
		next = "v" + next
	}
	return next, nil
}
