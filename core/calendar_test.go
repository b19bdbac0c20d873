package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrdinalConversions(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		ordinal int
		yyyyddd int
	}{
		{"first ordinal", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), 1, 1001},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 719163, 1970001},
		{"epoch start", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), 730486, 2001001},
		{"leap year day 365", time.Date(2016, 12, 30, 0, 0, 0, 0, time.UTC), 736328, 2016365},
		{"last ordinal", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 3652059, 9999365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ordinal, TimeToOrdinal(tt.date))
			assert.True(t, tt.date.Equal(OrdinalToTime(tt.ordinal)))
			assert.Equal(t, tt.yyyyddd, OrdinalToDOY(tt.ordinal))
			assert.Equal(t, tt.ordinal, DOYToOrdinal(tt.yyyyddd))
		})
	}
}

func TestTimeToOrdinal_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2005, 7, 19, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, DOYToOrdinal(2005200), TimeToOrdinal(late))
}

func TestSplitDOY(t *testing.T) {
	year, doy := SplitDOY(2008271)
	assert.Equal(t, 2008, year)
	assert.Equal(t, 271, doy)
}
