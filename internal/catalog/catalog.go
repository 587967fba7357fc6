// Package catalog holds the fixed, policy-constrained pool of pages the
// generator may visit. The pool is assembled once at startup and validated
// against the category allow-list; disallowed categories cannot appear
// because no entry for them exists.
package catalog

import (
	"fmt"
	"net/url"

	"github.com/tanwk/historygen/internal/model"
	"github.com/tanwk/historygen/internal/rng"
)

// BiasBoost multiplies the weight of entries matching a session's topic
// bias. Other categories keep their base weight, so every allowed category
// retains a non-zero floor probability.
const BiasBoost = 4

// Entry is one allow-listed page template. build resolves any synthesized
// ids (document ids, course ids, video ids) into a concrete URL and title.
type Entry struct {
	Domain   string
	Category model.Category
	Weight   int
	DwellLo  int // seconds
	DwellHi  int

	build func(e *rng.Engine) (url, title, term string)
}

// Catalog is an immutable weighted set of entries.
type Catalog struct {
	entries []Entry
}

// Default returns the built-in catalog. It is validated once at package
// init; a policy violation there is a programming error and panics.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = func() *Catalog {
	c := &Catalog{entries: buildEntries()}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}()

// Validate checks every entry against the category allow-list and for a
// usable weight.
func (c *Catalog) Validate() error {
	if len(c.entries) == 0 {
		return fmt.Errorf("catalog: empty pool")
	}
	for _, e := range c.entries {
		if !model.ValidCategories[e.Category] {
			return fmt.Errorf("catalog: entry %s has disallowed category %q", e.Domain, e.Category)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("catalog: entry %s has non-positive weight", e.Domain)
		}
		if e.DwellLo <= 0 || e.DwellHi < e.DwellLo {
			return fmt.Errorf("catalog: entry %s has invalid dwell range [%d,%d]", e.Domain, e.DwellLo, e.DwellHi)
		}
	}
	return nil
}

// Entries returns the underlying pool (read-only by convention).
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Sample draws one page, weighted toward bias when bias is non-empty.
func (c *Catalog) Sample(e *rng.Engine, bias model.Category) model.Page {
	weights := make([]int, len(c.entries))
	for i, entry := range c.entries {
		w := entry.Weight
		if bias != "" && entry.Category == bias {
			w *= BiasBoost
		}
		weights[i] = w
	}
	entry := c.entries[e.WeightedIndex(weights)]

	pageURL, title, term := entry.build(e)
	return model.Page{
		URL:        pageURL,
		Title:      title,
		Domain:     entry.Domain,
		Category:   entry.Category,
		SearchTerm: term,
		DwellLo:    entry.DwellLo,
		DwellHi:    entry.DwellHi,
	}
}

// academicTopics are weighted search topics drawn for search-style pages.
var academicTopics = []struct {
	Topic  string
	Weight int
}{
	{"suvat equations examples", 12},
	{"kinematics graphs explained", 10},
	{"newton's laws of motion examples", 11},
	{"principle of moments questions", 9},
	{"electromagnetic induction o level", 7},
	{"mole concept chemistry o level", 10},
	{"redox reaction examples", 8},
	{"acid base titration calculation", 9},
	{"electrolysis of brine", 6},
	{"differentiation chain rule a math", 11},
	{"integration by substitution", 9},
	{"trigonometry identities a math", 10},
	{"indices and surds rules", 7},
	{"probability tree diagram", 8},
	{"logarithm rules and examples", 9},
	{"argumentative essay structure", 8},
	{"python for loop examples", 8},
	{"how to study effectively for exams", 8},
	{"past year papers o level", 9},
}

func sampleTopic(e *rng.Engine) string {
	weights := make([]int, len(academicTopics))
	for i, t := range academicTopics {
		weights[i] = t.Weight
	}
	return academicTopics[e.WeightedIndex(weights)].Topic
}

var eduVideos = []string{
	"Organic Chemistry in 30 Minutes",
	"A-Math Differentiation Full Revision",
	"Physics O-Level Electricity Explained",
	"How to Score A1 for O-Level Math",
	"Chemistry Mole Concept Made Easy",
	"Kinematics Explained - O Level Physics",
	"Integration Techniques A Math",
	"Trigonometry Full Revision A Math",
}

var notionTitles = []string{
	"Physics Notes - Notion",
	"Chemistry Revision - Notion",
	"A Math Notes - Notion",
	"Study Plan - Notion",
}

func static(url, title string) func(*rng.Engine) (string, string, string) {
	return func(*rng.Engine) (string, string, string) { return url, title, "" }
}

func buildEntries() []Entry {
	return []Entry{
		// classroom: school platforms
		{
			Domain: "classroom.google.com", Category: model.CategoryClassroom, Weight: 10, DwellLo: 30, DwellHi: 90,
			build: static("https://classroom.google.com/u/0/h", "Google Classroom"),
		},
		{
			Domain: "classroom.google.com", Category: model.CategoryClassroom, Weight: 8, DwellLo: 60, DwellHi: 180,
			build: func(e *rng.Engine) (string, string, string) {
				return fmt.Sprintf("https://classroom.google.com/u/0/c/%d", e.Digits(12)), "Class - Google Classroom", ""
			},
		},
		{
			Domain: "classroom.google.com", Category: model.CategoryClassroom, Weight: 8, DwellLo: 60, DwellHi: 180,
			build: func(e *rng.Engine) (string, string, string) {
				return fmt.Sprintf("https://classroom.google.com/u/0/c/%d/a/%d/details", e.Digits(12), e.Digits(12)),
					"Assignment - Google Classroom", ""
			},
		},
		{
			Domain: "vle.learning.moe.edu.sg", Category: model.CategoryClassroom, Weight: 6, DwellLo: 15, DwellHi: 45,
			build: static("https://vle.learning.moe.edu.sg/login", "SLS Login"),
		},
		{
			Domain: "vle.learning.moe.edu.sg", Category: model.CategoryClassroom, Weight: 8, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				return fmt.Sprintf("https://vle.learning.moe.edu.sg/learner/module/%d", e.Between(100000, 999999)),
					"Learning Module - SLS", ""
			},
		},
		{
			Domain: "mims.moe.gov.sg", Category: model.CategoryClassroom, Weight: 4, DwellLo: 30, DwellHi: 90,
			build: static("https://mims.moe.gov.sg/", "MIMS Portal"),
		},

		// educational-reference: searches, reference sites, study videos
		{
			Domain: "www.google.com", Category: model.CategoryReference, Weight: 14, DwellLo: 15, DwellHi: 45,
			build: func(e *rng.Engine) (string, string, string) {
				topic := sampleTopic(e)
				u := "https://www.google.com/search?q=" + url.QueryEscape(topic)
				return u, topic + " - Google Search", topic
			},
		},
		{
			Domain: "www.khanacademy.org", Category: model.CategoryReference, Weight: 9, DwellLo: 120, DwellHi: 480,
			build: static("https://www.khanacademy.org/", "Khan Academy | Free Online Courses"),
		},
		{
			Domain: "www.physicsclassroom.com", Category: model.CategoryReference, Weight: 7, DwellLo: 120, DwellHi: 480,
			build: static("https://www.physicsclassroom.com/", "The Physics Classroom"),
		},
		{
			Domain: "www.mathsisfun.com", Category: model.CategoryReference, Weight: 7, DwellLo: 60, DwellHi: 300,
			build: static("https://www.mathsisfun.com/", "Math is Fun"),
		},
		{
			Domain: "brilliant.org", Category: model.CategoryReference, Weight: 5, DwellLo: 180, DwellHi: 600,
			build: static("https://brilliant.org/", "Brilliant | Learn to think"),
		},
		{
			Domain: "www.chemguide.co.uk", Category: model.CategoryReference, Weight: 5, DwellLo: 120, DwellHi: 480,
			build: static("https://www.chemguide.co.uk/", "chemguide"),
		},
		{
			Domain: "en.wikipedia.org", Category: model.CategoryReference, Weight: 5, DwellLo: 60, DwellHi: 300,
			build: static("https://en.wikipedia.org/wiki/Main_Page", "Wikipedia"),
		},
		{
			Domain: "www.youtube.com", Category: model.CategoryReference, Weight: 6, DwellLo: 20, DwellHi: 60,
			build: func(e *rng.Engine) (string, string, string) {
				topic := sampleTopic(e)
				return "https://www.youtube.com/results?search_query=" + url.QueryEscape(topic), topic + " - YouTube", ""
			},
		},
		{
			Domain: "www.youtube.com", Category: model.CategoryReference, Weight: 8, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				title := eduVideos[e.IntN(len(eduVideos))]
				return "https://www.youtube.com/watch?v=" + e.Alphanum(11), title + " - YouTube", ""
			},
		},
		{
			Domain: "sgtestpaper.com", Category: model.CategoryReference, Weight: 4, DwellLo: 300, DwellHi: 900,
			build: static("https://sgtestpaper.com/", "SG Test Paper - Free Exam Papers"),
		},

		// ai-assistant
		{
			Domain: "chat.openai.com", Category: model.CategoryAssistant, Weight: 9, DwellLo: 180, DwellHi: 600,
			build: static("https://chat.openai.com/", "ChatGPT"),
		},
		{
			Domain: "gemini.google.com", Category: model.CategoryAssistant, Weight: 4, DwellLo: 120, DwellHi: 480,
			build: static("https://gemini.google.com/app", "Gemini"),
		},

		// productivity: docs, notes, flashcards
		{
			Domain: "docs.google.com", Category: model.CategoryProductivity, Weight: 10, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", e.Alphanum(44)),
					"Untitled document - Google Docs", ""
			},
		},
		{
			Domain: "docs.google.com", Category: model.CategoryProductivity, Weight: 5, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", e.Alphanum(44)),
					"Untitled spreadsheet - Google Sheets", ""
			},
		},
		{
			Domain: "www.notion.so", Category: model.CategoryProductivity, Weight: 5, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				return "https://www.notion.so/" + e.Alphanum(32), notionTitles[e.IntN(len(notionTitles))], ""
			},
		},
		{
			Domain: "quizlet.com", Category: model.CategoryProductivity, Weight: 6, DwellLo: 300, DwellHi: 900,
			build: func(e *rng.Engine) (string, string, string) {
				topic := sampleTopic(e)
				slug := slugify(topic)
				return fmt.Sprintf("https://quizlet.com/%d/%s-flash-cards/", e.Between(100000, 999999), slug),
					topic + " Flashcards | Quizlet", ""
			},
		},
	}
}

func slugify(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s) && len(b) < 30; i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b = append(b, c)
		case c == ' ':
			b = append(b, '-')
		}
	}
	return string(b)
}
