package trends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

func TestEvergreenSource_Fetch(t *testing.T) {
	src := NewEvergreenSource()
	src.now = func() time.Time { return time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC) }

	topics, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, topics)

	var seasonal, evergreen []domain.TrendingTopic
	for _, tp := range topics {
		switch tp.KeywordType {
		case domain.KeywordSeasonal:
			seasonal = append(seasonal, tp)
		case domain.KeywordEvergreen:
			evergreen = append(evergreen, tp)
		}
	}

	require.NotEmpty(t, evergreen)
	require.Len(t, seasonal, len(seasonalCalendar[time.May])+len(seasonalCalendar[time.June]))

	full := 0
	reduced := 0
	for _, s := range seasonal {
		assert.NotEmpty(t, s.Reason, "seasonal entries carry a human-readable reason")
		switch s.TrendScore {
		case seasonalBaseScore:
			full++
		case seasonalBaseScore - nextMonthPenalty:
			reduced++
			assert.Contains(t, s.Reason, "다음 달")
		}
	}
	assert.Equal(t, len(seasonalCalendar[time.May]), full, "current month at full weight")
	assert.Equal(t, len(seasonalCalendar[time.June]), reduced, "next month at reduced weight")
}

func TestEvergreenSource_Fetch_DecemberWrapsToJanuary(t *testing.T) {
	src := NewEvergreenSource()
	src.now = func() time.Time { return time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC) }

	topics, err := src.Fetch(context.Background())
	require.NoError(t, err)

	found := false
	for _, tp := range topics {
		if tp.Keyword == seasonalCalendar[time.January][0].keyword {
			found = true
			assert.InDelta(t, seasonalBaseScore-nextMonthPenalty, tp.TrendScore, 0.001)
		}
	}
	assert.True(t, found, "December run must seed January's entries")
}

func TestSeasonalCalendar_AllMonthsPopulated(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		assert.NotEmpty(t, seasonalCalendar[m], "month %v has no seasonal entries", m)
	}
}
