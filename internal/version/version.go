package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("unparseable version")

// ParseError reports a version string that is not major[.minor[.patch]].
type ParseError struct {
	Input string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("cannot parse version %q", e.Input)
}

func (e ParseError) Is(target error) bool {
	return target == ErrParse
}

// SemVer is a (major, minor, patch) triple ordered lexicographically.
type SemVer struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String formats v as vMAJOR.MINOR.PATCH.
func (v SemVer) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than o.
func (v SemVer) Compare(o SemVer) int {
	for _, pair := range [3][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return 0
}

// Less reports whether v sorts before o.
func (v SemVer) Less(o SemVer) bool {
	return v.Compare(o) < 0
}

// Min returns the smallest of vs. It returns the zero value and false when
// vs is empty.
func Min(vs ...SemVer) (SemVer, bool) {
	if len(vs) == 0 {
		return SemVer{}, false
	}
	lowest := vs[0]
	for _, v := range vs[1:] {
		if v.Less(lowest) {
			lowest = v
		}
	}
	return lowest, true
}

// Trailing text after the numeric prefix (e.g. "3.3.10-beta") is ignored.
var dottedRegex = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?`)

// Parse reads an installed version such as "3", "3.3" or "3.3.10".
// Missing components default to zero.
func Parse(s string) (SemVer, error) {
	m := dottedRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return SemVer{}, ParseError{Input: s}
	}
	var parts [3]int
	for i, group := range m[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return SemVer{}, ParseError{Input: s}
		}
		parts[i] = n
	}
	return SemVer{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

var (
	singleDigitRegex = regexp.MustCompile(`^([0-9]+)\.([0-9])$`)
	packedRegex      = regexp.MustCompile(`^([0-9]+)\.([0-9]{3})([0-9]*)$`)
)

// ParseRequirement reads a minimum version written as a decimal literal.
//
// Two conventions overlap here. A single fractional digit is the minor
// version ("3.3" is 3.3.0). Three or more fractional digits are packed,
// three for the minor and the rest for the patch ("3.002" is 3.2.0,
// "3.003004" is 3.3.4). Anything else is read with Parse, so "3.10" is
// 3.10.0 and not 3.100.0. The two readings disagree once a minor version
// reaches 10; callers that can should pass a SemVer instead.
func ParseRequirement(s string) (SemVer, error) {
	trimmed := strings.TrimSpace(s)
	if m := singleDigitRegex.FindStringSubmatch(trimmed); m != nil {
		major, err := strconv.Atoi(m[1])
		if err != nil {
			return SemVer{}, ParseError{Input: s}
		}
		minor, _ := strconv.Atoi(m[2])
		return SemVer{Major: major, Minor: minor}, nil
	}
	if m := packedRegex.FindStringSubmatch(trimmed); m != nil {
		major, err := strconv.Atoi(m[1])
		if err != nil {
			return SemVer{}, ParseError{Input: s}
		}
		minor, _ := strconv.Atoi(m[2])
		patch := 0
		if m[3] != "" {
			patch, err = strconv.Atoi(m[3])
			if err != nil {
				return SemVer{}, ParseError{Input: s}
			}
		}
		return SemVer{Major: major, Minor: minor, Patch: patch}, nil
	}
	return Parse(trimmed)
}
