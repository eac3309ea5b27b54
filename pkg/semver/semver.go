package semver

import (
	mmsemver "github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/monobuild/pkg/errors"
)

// Satisfies reports whether version satisfies rangeExpr, under standard
// semver grammar (major.minor.patch with optional prerelease/build;
// ranges include exact, caret, tilde, x-ranges, and comparator unions
// joined by "||"). Out-of-grammar input returns errors.ErrBadVersionSpec.
func Satisfies(version, rangeExpr string) (bool, error) {
	v, err := mmsemver.NewVersion(version)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrBadVersionSpec, "invalid version %q", version)
	}

	constraint, err := mmsemver.NewConstraint(rangeExpr)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrBadVersionSpec, "invalid range %q", rangeExpr)
	}

	return constraint.Check(v), nil
}

// Valid reports whether s parses as a concrete semver version.
func Valid(s string) bool {
	_, err := mmsemver.NewVersion(s)
	return err == nil
}
