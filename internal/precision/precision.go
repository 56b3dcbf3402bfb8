package precision

import (
	"errors"
	"fmt"
	"strings"
)

// Tag identifies one precision variant of the FFTW3 library.
type Tag string

const (
	Float      Tag = "f"
	Double     Tag = "d"
	LongDouble Tag = "l"
	Quad       Tag = "q"
)

// PackageBase is the pkg-config name of the double precision library; the
// other variants append their suffix.
const PackageBase = "fftw3"

// ErrInvalidTag is matched by every InvalidTagError.
var ErrInvalidTag = errors.New("invalid precision")

// InvalidTagError reports a tag outside the supported set.
type InvalidTagError struct {
	Tag string
}

func (e InvalidTagError) Error() string {
	return fmt.Sprintf("invalid precision %q (want one of f, d, l, q)", e.Tag)
}

func (e InvalidTagError) Is(target error) bool {
	return target == ErrInvalidTag
}

type variant struct {
	suffix    string
	configure string
	name      string
}

var variants = map[Tag]variant{
	Float:      {suffix: "f", configure: "--enable-float", name: "float"},
	Double:     {suffix: "", configure: "", name: "double"},
	LongDouble: {suffix: "l", configure: "--enable-long-double", name: "long double"},
	Quad:       {suffix: "q", configure: "--enable-quad-precision", name: "quad"},
}

// All returns every supported tag in canonical order.
func All() []Tag {
	return []Tag{Float, Double, LongDouble, Quad}
}

// Valid reports whether t belongs to the supported set.
func (t Tag) Valid() bool {
	_, ok := variants[t]
	return ok
}

// Suffix returns the package-name suffix for t.
func (t Tag) Suffix() string {
	return variants[t].suffix
}

// Package returns the pkg-config package name for t, e.g. "fftw3f".
func (t Tag) Package() string {
	return PackageBase + t.Suffix()
}

// ConfigureFlag returns the FFTW configure switch that builds this variant.
// Double precision is the default build and has none.
func (t Tag) ConfigureFlag() string {
	return variants[t].configure
}

// Description returns a human readable name such as "long double".
func (t Tag) Description() string {
	return variants[t].name
}

func (t Tag) String() string {
	return string(t)
}

// Parse converts a single tag string.
func Parse(value string) (Tag, error) {
	tag := Tag(strings.TrimSpace(value))
	if !tag.Valid() {
		return "", InvalidTagError{Tag: value}
	}
	return tag, nil
}

// Normalize validates tags and substitutes All when none are given.
// Duplicates are kept; resolution is idempotent over them.
func Normalize(tags []Tag) ([]Tag, error) {
	if len(tags) == 0 {
		return All(), nil
	}
	out := make([]Tag, len(tags))
	for i, tag := range tags {
		if !tag.Valid() {
			return nil, InvalidTagError{Tag: string(tag)}
		}
		out[i] = tag
	}
	return out, nil
}

// ParseList converts user input such as ["f,d", "q"] or ["f d"] into tags.
// An empty input yields All.
func ParseList(values []string) ([]Tag, error) {
	var tags []Tag
	for _, value := range values {
		fields := strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, field := range fields {
			tag, err := Parse(field)
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
		}
	}
	return Normalize(tags)
}

// Strings converts tags to plain strings.
func Strings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}
