package precision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageNames(t *testing.T) {
	cases := map[Tag]string{
		Float:      "fftw3f",
		Double:     "fftw3",
		LongDouble: "fftw3l",
		Quad:       "fftw3q",
	}
	for tag, want := range cases {
		assert.Equal(t, want, tag.Package(), "tag %s", tag)
	}
}

func TestConfigureFlags(t *testing.T) {
	assert.Equal(t, "--enable-float", Float.ConfigureFlag())
	assert.Empty(t, Double.ConfigureFlag())
	assert.Equal(t, "--enable-long-double", LongDouble.ConfigureFlag())
	assert.Equal(t, "--enable-quad-precision", Quad.ConfigureFlag())
}

func TestParseRejectsUnknownTag(t *testing.T) {
	_, err := Parse("x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTag))

	var tagErr InvalidTagError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, "x", tagErr.Tag)
}

func TestNormalizeDefaultsToAll(t *testing.T) {
	tags, err := Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, []Tag{Float, Double, LongDouble, Quad}, tags)
}

func TestNormalizeKeepsDuplicates(t *testing.T) {
	tags, err := Normalize([]Tag{Double, Double})
	require.NoError(t, err)
	assert.Equal(t, []Tag{Double, Double}, tags)
}

func TestNormalizeInvalid(t *testing.T) {
	_, err := Normalize([]Tag{Double, Tag("z")})
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []Tag
	}{
		{name: "empty", input: nil, want: All()},
		{name: "comma", input: []string{"f,d"}, want: []Tag{Float, Double}},
		{name: "repeated", input: []string{"q", "l"}, want: []Tag{Quad, LongDouble}},
		{name: "spaces", input: []string{" f  q "}, want: []Tag{Float, Quad}},
		{name: "blank entries", input: []string{",", ""}, want: All()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListInvalid(t *testing.T) {
	_, err := ParseList([]string{"f,double"})
	assert.ErrorIs(t, err, ErrInvalidTag)
}
