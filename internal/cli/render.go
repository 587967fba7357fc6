package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tanwk/historygen/internal/chromedb"
	"github.com/tanwk/historygen/internal/generate"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	time    lipgloss.Style
	url     lipgloss.Style
	pgtitle lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		time:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		url:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		pgtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}

func renderPreview(pv *generate.Preview) string {
	s := newStyles()
	lines := []string{
		s.title.Render("History preview"),
		s.header.Render(fmt.Sprintf("seed: %d  weeks: %d  visits: %d", pv.Seed, pv.Weeks, pv.TotalVisits)),
	}
	if len(pv.Entries) == 0 {
		lines = append(lines, s.empty.Render("No visits generated."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	for _, e := range pv.Entries {
		lines = append(lines, fmt.Sprintf("%s  %s\n      %s",
			s.time.Render(e.Time), s.pgtitle.Render(e.Title), s.url.Render(e.URL)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResult(res *generate.Result, out string) string {
	s := newStyles()
	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("History written to "+out),
		s.header.Render(fmt.Sprintf("seed: %d  weeks: %d  visits: %d", res.Seed, res.Weeks, res.TotalVisits)),
	)
}

func renderInspect(st *chromedb.Stats, recent []chromedb.DecodedVisit) string {
	s := newStyles()
	lines := []string{
		s.title.Render(st.Path),
		s.header.Render(fmt.Sprintf("schema v%s  urls: %d  visits: %d  size: %d bytes",
			st.Version, st.URLCount, st.VisitCount, st.SizeBytes)),
		s.header.Render(fmt.Sprintf("range: %s .. %s",
			st.FirstVisit.Format("2006-01-02 15:04:05"), st.LastVisit.Format("2006-01-02 15:04:05"))),
	}
	for _, v := range recent {
		lines = append(lines, fmt.Sprintf("%s  %s\n      %s",
			s.time.Render(v.Time.Format("2006-01-02 15:04:05")), s.pgtitle.Render(v.Title), s.url.Render(v.URL)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
