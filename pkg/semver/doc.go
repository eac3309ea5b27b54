// Package semver evaluates whether a concrete version satisfies an
// npm-style range expression (exact, caret, tilde, x-ranges, comparator
// unions joined by "||"). It delegates the actual comparison to
// github.com/Masterminds/semver/v3, which already understands this
// grammar, and translates out-of-grammar input into errors.BadVersionSpec
// the way the rest of monobuild reports fatal planning errors.
package semver
