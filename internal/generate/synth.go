package generate

import (
	"time"

	"github.com/tanwk/historygen/internal/model"
	"github.com/tanwk/historygen/internal/rng"
)

// topicBiasWeights shape how often each category anchors a session.
// Reference-heavy sessions (searching and reading) dominate, then school
// platforms and docs work, with assistant-led sessions the rarest.
var topicBiasWeights = []int{3, 4, 1, 3} // parallel to model.AllowedCategories

// synthesize expands one session into an ordered visit sequence. The
// session's topic bias is drawn once and recorded on the session; each
// visit links to the immediately preceding visit in the same session.
func (s *Service) synthesize(eng *rng.Engine, session *model.Session, nextID *int64) []model.VisitRecord {
	session.TopicBias = model.AllowedCategories[eng.WeightedIndex(topicBiasWeights)]

	// Bound the visit count by what the session duration can hold given
	// the nominal per-visit footprint (shortest dwell plus shortest gap).
	durSec := int(session.End.Sub(session.Start) / time.Second)
	maxFit := durSec / (minCatalogDwell + s.cfg.GapLoSec)
	maxVisits := min(s.cfg.MaxVisitsPerSession, maxFit)
	if maxVisits < 1 {
		maxVisits = 1
	}
	count := eng.Between(1, maxVisits)
	if count > 2 {
		// Skew away from the extremes a little.
		count = (count + eng.Between(2, maxVisits)) / 2
	}

	var visits []model.VisitRecord
	var prevID int64
	t := session.Start
	for i := 0; i < count; i++ {
		if i > 0 {
			t = t.Add(time.Duration(eng.Between(s.cfg.GapLoSec, s.cfg.GapHiSec)) * time.Second)
		}
		if !t.Before(session.End) {
			break
		}

		page := s.cat.Sample(eng, session.TopicBias)
		dwell := clamp(eng.Between(page.DwellLo, page.DwellHi), 5, 3600)

		v := model.VisitRecord{
			ID:          *nextID,
			URL:         page.URL,
			Title:       page.Title,
			Category:    page.Category,
			VisitTime:   t,
			Duration:    time.Duration(dwell) * time.Second,
			ReferringID: prevID,
			SessionID:   session.ID,
			SearchTerm:  page.SearchTerm,
		}
		visits = append(visits, v)
		prevID = v.ID
		*nextID++

		t = t.Add(time.Duration(dwell) * time.Second)
	}
	return visits
}

// minCatalogDwell is the smallest dwell floor in the catalog, used to size
// session capacity.
const minCatalogDwell = 15

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
