//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package web

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "absent", query: "", want: nil},
		{name: "empty value", query: "drivers=", want: nil},
		{name: "single", query: "drivers=VER", want: []string{"VER"}},
		{name: "trims and drops empties", query: "drivers=VER,%20ALO%20,,%20",
			want: []string{"VER", "ALO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, csvParam(q, "drivers"))
		})
	}
}

func TestNumericParams(t *testing.T) {
	q, err := url.ParseQuery("a=5&b=&c=x&d=1.25")
	require.NoError(t, err)

	v, err := intParam(q, "a", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	// empty and absent fall back to the default
	v, err = intParam(q, "b", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	v, err = intParam(q, "missing", 8)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	_, err = intParam(q, "c", 20)
	assert.ErrorContains(t, err, "invalid c")

	f, err := floatParam(q, "d", 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, f, 1e-12)
	_, err = floatParam(q, "c", 1.0)
	assert.Error(t, err)
}

func TestFloatListParam(t *testing.T) {
	q, err := url.ParseQuery("good=1.1,0.9&bad=1.1,x")
	require.NoError(t, err)

	values, err := floatListParam(q, "good")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.1, 0.9}, values)

	values, err = floatListParam(q, "missing")
	require.NoError(t, err)
	assert.Nil(t, values)

	_, err = floatListParam(q, "bad")
	assert.ErrorContains(t, err, "invalid bad")
}

func TestSessionKeyParam(t *testing.T) {
	q, err := url.ParseQuery("year=2024&round=3&session=R")
	require.NoError(t, err)
	key, err := sessionKeyParam(q)
	require.NoError(t, err)
	assert.Equal(t, 2024, key.Year)
	assert.Equal(t, 3, key.Round)
	assert.Equal(t, "R", key.Session)

	q, err = url.ParseQuery("year=2024&session=R")
	require.NoError(t, err)
	_, err = sessionKeyParam(q)
	assert.ErrorContains(t, err, "round required")

	q, err = url.ParseQuery("year=twenty&round=3&session=R")
	require.NoError(t, err)
	_, err = sessionKeyParam(q)
	assert.ErrorContains(t, err, "invalid year")
}
