package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanwk/historygen/internal/config"
	"github.com/tanwk/historygen/internal/rng"
)

var testEnd = time.Date(2026, 3, 20, 21, 30, 0, 0, time.UTC)

func TestPlanDeterministic(t *testing.T) {
	p := NewPlanner(config.Default())

	a, err := p.Plan(rng.New(42), 2, testEnd)
	require.NoError(t, err)
	b, err := p.Plan(rng.New(42), 2, testEnd)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestPlanChronologicalAndNonOverlapping(t *testing.T) {
	p := NewPlanner(config.Default())

	for seed := int64(1); seed <= 50; seed++ {
		sessions, err := p.Plan(rng.New(seed), 3, testEnd)
		require.NoError(t, err)
		require.NotEmpty(t, sessions)

		for i, s := range sessions {
			assert.True(t, s.Start.Before(s.End), "seed %d: session %d start !< end", seed, i)
			if i > 0 {
				prev := sessions[i-1]
				assert.False(t, s.Start.Before(prev.End),
					"seed %d: session %d overlaps previous (%s < %s)", seed, i, s.Start, prev.End)
			}
		}
	}
}

func TestPlanCoversActiveWeekdays(t *testing.T) {
	p := NewPlanner(config.Default())

	sessions, err := p.Plan(rng.New(7), 1, testEnd)
	require.NoError(t, err)

	byDay := map[string]int{}
	for _, s := range sessions {
		byDay[s.Start.Format("2006-01-02")]++
	}

	start := testEnd.AddDate(0, 0, -7)
	day := midnight(start).AddDate(0, 0, 1)
	for ; day.AddDate(0, 0, 1).Before(testEnd); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		assert.Greater(t, byDay[day.Format("2006-01-02")], 0,
			"weekday %s has no session", day.Format("2006-01-02"))
	}
}

func TestPlanStaysInsideWindow(t *testing.T) {
	p := NewPlanner(config.Default())
	start := testEnd.AddDate(0, 0, -12*7)

	sessions, err := p.Plan(rng.New(99), 12, testEnd)
	require.NoError(t, err)

	for _, s := range sessions {
		assert.False(t, s.Start.Before(start), "session starts before window: %s", s.Start)
		assert.False(t, s.End.After(testEnd), "session ends after window: %s", s.End)
	}
}

func TestSessionIDsSequential(t *testing.T) {
	p := NewPlanner(config.Default())
	sessions, err := p.Plan(rng.New(5), 2, testEnd)
	require.NoError(t, err)

	for i, s := range sessions {
		assert.Equal(t, i+1, s.ID)
	}
}
