package humanize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-5 * time.Second, "less than a minute"},
		{0, "less than a minute"},
		{59 * time.Second, "less than a minute"},
		{time.Minute, "1 minute"},
		{119 * time.Second, "1 minute"},
		{2 * time.Minute, "2 minutes"},
		{49 * time.Minute, "49 minutes"},
		{50 * time.Minute, "about one hour"},
		{89 * time.Minute, "about one hour"},
		{90 * time.Minute, "1 hours"},
		{5 * time.Hour, "5 hours"},
		{18 * time.Hour, "one day"},
		{Day, "about one day"},
		{2 * Day, "2 days"},
		{6 * Day, "6 days"},
		{Week, "about one week"},
		{2 * Week, "2 weeks"},
		{12 * Week, "12 weeks"},
		{3 * Month, "3 months"},
		{11 * Month, "11 months"},
		{Year, "1 years"},
		{3 * Year, "3 years"},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "about one hour", Seconds(3600))
	assert.Equal(t, "3 days", Seconds(3*86400))
	assert.Equal(t, "100 years", Seconds(100*31557600))
	assert.Equal(t, "1000 years", Seconds(1000*31557600))
	assert.Equal(t, "292271023045 years", Seconds(math.MaxInt64))
}
