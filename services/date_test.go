package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-06-15")
	assert.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/06/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	ts, err := ParseDateTime("2026-06-15T10:00:00Z")
	assert.NoError(t, err)
	assert.True(t, ts.Equal(mustUTC(2026, time.June, 15, 10, 0)))

	_, err = ParseDateTime("2026-06-15 10:00")
	assert.Error(t, err)
}
