package clock_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/dependencies/mocks"
)

func TestTodayUsesLeagueTimeZone(t *testing.T) {
	// 02:30 UTC on Oct 10 is still the evening of Oct 9 in UTC-4
	c := mocks.NewMockClock(time.Date(2025, 10, 10, 2, 30, 0, 0, time.UTC))
	eastern := time.FixedZone("EDT", -4*60*60)

	assert.Equal(t, civil.Date{Year: 2025, Month: 10, Day: 9}, clock.Today(c, eastern))
	assert.Equal(t, civil.Date{Year: 2025, Month: 10, Day: 10}, clock.Today(c, nil))
}
