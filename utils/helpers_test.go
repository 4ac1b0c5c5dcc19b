package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2018-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2018-01-15", FormatDate(got))

	for _, bad := range []string{"", "15/01/2018", "2018-1-5", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2018, 1, 15, 23, 59, 59, 500, time.UTC)
	assert.Equal(t, time.Date(2018, 1, 15, 0, 0, 0, 0, time.UTC), DateOf(in))
}
