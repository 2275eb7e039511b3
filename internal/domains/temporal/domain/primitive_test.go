package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, raw string) Instant {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	return NewInstant(ts)
}

func TestExtent_SpansInstantsAndPeriods(t *testing.T) {
	values := []Primitive{
		NewPeriod(at(t, "2020-03-01T00:00:00Z"), at(t, "2020-04-01T00:00:00Z")),
		at(t, "2020-01-15T12:00:00+02:00"),
		nil,
		NewPeriod(at(t, "2020-02-01T00:00:00Z"), at(t, "2020-06-30T23:59:59Z")),
	}

	extent, err := Extent(values...)
	require.NoError(t, err)
	assert.True(t, extent.Begin.Equal(at(t, "2020-01-15T10:00:00Z")))
	assert.True(t, extent.End.Equal(at(t, "2020-06-30T23:59:59Z")))
	assert.True(t, extent.IsOrdered())
}

func TestExtent_SingleInstantIsDegeneratePeriod(t *testing.T) {
	instant := at(t, "2021-05-05T05:05:05Z")
	extent, err := Extent(instant)
	require.NoError(t, err)
	assert.Equal(t, instant, extent.Begin)
	assert.Equal(t, instant, extent.End)
	assert.Zero(t, extent.Duration())
}

func TestExtent_Empty(t *testing.T) {
	_, err := Extent()
	require.ErrorIs(t, err, ErrEmptyExtent)

	_, err = Extent(nil, nil)
	require.ErrorIs(t, err, ErrEmptyExtent)
}

func TestPeriod_UnorderedIsKept(t *testing.T) {
	p := NewPeriod(at(t, "2020-06-01T00:00:00Z"), at(t, "2020-01-01T00:00:00Z"))
	assert.False(t, p.IsOrdered())
	assert.Negative(t, p.Duration())
	assert.Equal(t, KindPeriod, p.Kind())
}

func TestPeriod_Contains(t *testing.T) {
	p := NewPeriod(at(t, "2020-01-01T00:00:00Z"), at(t, "2020-12-31T00:00:00Z"))
	assert.True(t, p.Contains(at(t, "2020-01-01T00:00:00Z")))
	assert.True(t, p.Contains(at(t, "2020-07-01T00:00:00Z")))
	assert.False(t, p.Contains(at(t, "2021-01-01T00:00:00Z")))
}

func TestParseQName(t *testing.T) {
	q, err := ParseQName("{http://example.com/app}Roads")
	require.NoError(t, err)
	assert.Equal(t, QName{Space: "http://example.com/app", Local: "Roads"}, q)
	assert.Equal(t, "{http://example.com/app}Roads", q.String())

	q, err = ParseQName("Roads")
	require.NoError(t, err)
	assert.Equal(t, "Roads", q.String())

	for _, raw := range []string{"", "{http://example.com/app}", "{unterminated", "bad}name"} {
		_, err := ParseQName(raw)
		assert.ErrorIs(t, err, ErrInvalidQName, raw)
	}
}
