package generate

import (
	"time"

	"github.com/tanwk/historygen/internal/model"
)

// previewTimeLayout matches how the artifact's consumer displays visit
// times when decoded back to local time.
const previewTimeLayout = "2006-01-02 15:04:05"

// project derives the newest-first bounded summary of a generated history.
// It is a strict order-preserving projection of the visit sequence; the
// entries are always the recency prefix of the full artifact.
func project(h *model.GeneratedHistory, limit int, loc *time.Location) *Preview {
	p := &Preview{
		Seed:        h.Seed,
		Weeks:       h.Weeks,
		TotalVisits: h.TotalVisits(),
	}

	for i := len(h.Visits) - 1; i >= 0 && len(p.Entries) < limit; i-- {
		v := h.Visits[i]
		p.Entries = append(p.Entries, PreviewEntry{
			Time:  v.VisitTime.In(loc).Format(previewTimeLayout),
			URL:   v.URL,
			Title: v.Title,
		})
	}
	return p
}
