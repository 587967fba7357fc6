// Package model defines the core browsing-history data types.
package model

import "time"

// Category classifies a page in the allow-listed content policy.
type Category string

const (
	CategoryClassroom    Category = "classroom"
	CategoryReference    Category = "educational-reference"
	CategoryAssistant    Category = "ai-assistant"
	CategoryProductivity Category = "productivity"
)

// AllowedCategories is the fixed allow-list, in stable draw order.
var AllowedCategories = []Category{
	CategoryClassroom,
	CategoryReference,
	CategoryAssistant,
	CategoryProductivity,
}

// ValidCategories are the categories permitted in the catalog.
var ValidCategories = map[Category]bool{
	CategoryClassroom:    true,
	CategoryReference:    true,
	CategoryAssistant:    true,
	CategoryProductivity: true,
}

// Page is a concrete sampled page: a catalog entry with any synthesized
// ids resolved into a final URL and title.
type Page struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Domain     string   `json:"domain"`
	Category   Category `json:"category"`
	SearchTerm string   `json:"search_term,omitempty"`

	// DwellLo/DwellHi bound the sampled time-on-page in seconds.
	DwellLo int `json:"-"`
	DwellHi int `json:"-"`
}

// Session is a contiguous block of browsing activity.
type Session struct {
	ID        int       `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	TopicBias Category  `json:"topic_bias"`
}

// VisitRecord is a single page load event.
// ReferringID is 0 for a session's first visit; otherwise it references
// an earlier visit in the same session.
type VisitRecord struct {
	ID          int64         `json:"id"`
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Category    Category      `json:"category"`
	VisitTime   time.Time     `json:"visit_time"`
	Duration    time.Duration `json:"duration"`
	ReferringID int64         `json:"referring_id,omitempty"`
	SessionID   int           `json:"session_id"`
	SearchTerm  string        `json:"search_term,omitempty"`
}

// GeneratedHistory is the immutable result of one generation run.
type GeneratedHistory struct {
	Seed   int64         `json:"seed"`
	Weeks  int           `json:"weeks"`
	Visits []VisitRecord `json:"visits"`
}

// TotalVisits returns the number of visit records.
func (h *GeneratedHistory) TotalVisits() int {
	return len(h.Visits)
}
