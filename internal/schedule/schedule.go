// Package schedule places browsing sessions across the days of a time
// window. Weekdays carry more sessions than weekends and school-adjacent
// hours carry more sessions than late night; sessions on the same day
// never overlap.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/tanwk/historygen/internal/config"
	"github.com/tanwk/historygen/internal/model"
	"github.com/tanwk/historygen/internal/rng"
)

// slot is a candidate window of the day, in minutes from midnight.
type slot struct {
	loMin  int
	hiMin  int
	weight int
}

// Weekday afternoons and evenings dominate; a small early-morning and a
// late-night tail keep the shape realistic.
var weekdaySlots = []slot{
	{6*60 + 30, 7*60 + 45, 10},
	{12*60 + 15, 13 * 60, 10},
	{14*60 + 30, 16 * 60, 20},
	{16*60 + 30, 18*60 + 30, 25},
	{19 * 60, 21 * 60, 25},
	{21 * 60, 23 * 60, 10},
}

var weekendSlots = []slot{
	{9 * 60, 11 * 60, 20},
	{11 * 60, 13 * 60, 15},
	{14 * 60, 16*60 + 30, 25},
	{16*60 + 30, 18*60 + 30, 15},
	{19 * 60, 21 * 60, 20},
	{21 * 60, 23 * 60, 5},
}

// Session-count distributions, indexed from 1 session upward.
var (
	weekdayCountWeights = []int{25, 35, 25, 15} // 1..4
	weekendCountWeights = []int{40, 35, 25}     // 1..3
)

const placementRetries = 20

// Planner converts a time window into a chronological session sequence.
type Planner struct {
	cfg config.Config
}

// NewPlanner creates a Planner with the given tuning.
func NewPlanner(cfg config.Config) *Planner {
	return &Planner{cfg: cfg}
}

// Plan returns non-overlapping sessions for the weeks ending at end, in
// chronological order. Every full weekday inside the window receives at
// least one session; failing to honor that is an internal defect.
func (p *Planner) Plan(e *rng.Engine, weeks int, end time.Time) ([]model.Session, error) {
	start := end.AddDate(0, 0, -weeks*7)

	var sessions []model.Session
	day := midnight(start)
	for !day.After(end) {
		placed := p.planDay(e, day)

		// Clip to the window; boundary days may lose sessions.
		kept := 0
		for _, s := range placed {
			if s.Start.Before(start) || s.Start.After(end) {
				continue
			}
			if s.End.After(end) {
				s.End = end
			}
			if !s.Start.Before(s.End) {
				continue
			}
			sessions = append(sessions, s)
			kept++
		}

		if kept == 0 && isFullWeekday(day, start, end) {
			return nil, fmt.Errorf("schedule: no session placed on weekday %s", day.Format("2006-01-02"))
		}
		day = day.AddDate(0, 0, 1)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Start.Before(sessions[j].Start) })
	for i := range sessions {
		sessions[i].ID = i + 1
	}
	return sessions, nil
}

// planDay samples a session count for the day and places each session in a
// weighted time slot, resampling on overlap.
func (p *Planner) planDay(e *rng.Engine, day time.Time) []model.Session {
	slots := weekdaySlots
	countWeights := weekdayCountWeights
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		slots = weekendSlots
		countWeights = weekendCountWeights
	}
	count := e.WeightedIndex(countWeights) + 1

	slotWeights := make([]int, len(slots))
	for i, s := range slots {
		slotWeights[i] = s.weight
	}

	var placed []model.Session
	for i := 0; i < count; i++ {
		for try := 0; try < placementRetries; try++ {
			sl := slots[e.WeightedIndex(slotWeights)]
			startMin := e.Between(sl.loMin, sl.hiMin)
			durMin := e.Between(p.cfg.SessionMinMinutes, p.cfg.SessionMaxMinutes)

			s := model.Session{
				Start: day.Add(time.Duration(startMin) * time.Minute),
				End:   day.Add(time.Duration(startMin+durMin) * time.Minute),
			}
			if dayEnd := day.AddDate(0, 0, 1); s.End.After(dayEnd) {
				s.End = dayEnd
			}
			if !overlapsAny(s, placed) {
				placed = append(placed, s)
				break
			}
		}
	}
	return placed
}

func overlapsAny(s model.Session, placed []model.Session) bool {
	for _, o := range placed {
		if s.Start.Before(o.End) && o.Start.Before(s.End) {
			return true
		}
	}
	return false
}

func isFullWeekday(day, start, end time.Time) bool {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !day.Before(start) && !day.AddDate(0, 0, 1).After(end)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
