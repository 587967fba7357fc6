package chromedb

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tanwk/historygen/internal/model"
)

func testHistory() *model.GeneratedHistory {
	base := time.Date(2026, 3, 16, 19, 4, 10, 0, time.UTC)
	return &model.GeneratedHistory{
		Seed:  42,
		Weeks: 1,
		Visits: []model.VisitRecord{
			{
				ID: 1, URL: "https://www.google.com/search?q=suvat+equations+examples",
				Title: "suvat equations examples - Google Search", Category: model.CategoryReference,
				VisitTime: base, Duration: 30 * time.Second, SessionID: 1,
				SearchTerm: "suvat equations examples",
			},
			{
				ID: 2, URL: "https://www.khanacademy.org/",
				Title: "Khan Academy | Free Online Courses", Category: model.CategoryReference,
				VisitTime: base.Add(45 * time.Second), Duration: 240 * time.Second,
				ReferringID: 1, SessionID: 1,
			},
			{
				ID: 3, URL: "https://www.khanacademy.org/",
				Title: "Khan Academy | Free Online Courses", Category: model.CategoryReference,
				VisitTime: base.Add(400 * time.Second), Duration: 120 * time.Second,
				ReferringID: 2, SessionID: 1,
			},
		},
	}
}

func writeArtifact(t *testing.T, h *model.GeneratedHistory) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(context.Background(), h, &buf); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "History")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	return path
}

func TestChromeTimeKnownValue(t *testing.T) {
	unixEpoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ToChromeTime(unixEpoch); got != 11644473600000000 {
		t.Errorf("chrome time of unix epoch = %d", got)
	}
}

func TestChromeTimeRoundTrip(t *testing.T) {
	orig := time.Date(2026, 8, 30, 14, 22, 7, 123456000, time.UTC)
	back := FromChromeTime(ToChromeTime(orig))
	if !back.Equal(orig) {
		t.Errorf("round trip drifted: %v vs %v", back, orig)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := testHistory()
	path := writeArtifact(t, h)

	visits, err := ReadVisits(ctx, path)
	if err != nil {
		t.Fatalf("read visits: %v", err)
	}
	if len(visits) != len(h.Visits) {
		t.Fatalf("expected %d visits, got %d", len(h.Visits), len(visits))
	}
	for i, v := range visits {
		want := h.Visits[i]
		if v.URL != want.URL {
			t.Errorf("visit %d url = %q, want %q", i, v.URL, want.URL)
		}
		if !v.Time.Equal(want.VisitTime) {
			t.Errorf("visit %d time = %v, want %v", i, v.Time, want.VisitTime)
		}
		if v.FromVisit != want.ReferringID {
			t.Errorf("visit %d from_visit = %d, want %d", i, v.FromVisit, want.ReferringID)
		}
	}
}

func TestURLDeduplication(t *testing.T) {
	ctx := context.Background()
	h := testHistory()
	path := writeArtifact(t, h)

	st, err := ReadStats(ctx, path)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	if st.URLCount != 2 {
		t.Errorf("expected 2 deduplicated urls, got %d", st.URLCount)
	}
	if st.VisitCount != 3 {
		t.Errorf("expected 3 visits, got %d", st.VisitCount)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer db.Close()

	var visitCount, typedCount, lastVisit int64
	err = db.QueryRow(
		`SELECT visit_count, typed_count, last_visit_time FROM urls WHERE url = ?`,
		"https://www.khanacademy.org/").Scan(&visitCount, &typedCount, &lastVisit)
	if err != nil {
		t.Fatalf("query urls: %v", err)
	}
	if visitCount != 2 {
		t.Errorf("visit_count = %d, want 2", visitCount)
	}
	if typedCount != 0 {
		t.Errorf("typed_count = %d, want 0", typedCount)
	}
	if want := ToChromeTime(h.Visits[2].VisitTime); lastVisit != want {
		t.Errorf("last_visit_time = %d, want %d", lastVisit, want)
	}
}

func TestMetaRows(t *testing.T) {
	path := writeArtifact(t, testHistory())

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer db.Close()

	for key, want := range map[string]string{
		"version":                 "70",
		"last_compatible_version": "16",
		"mmap_status":             "-1",
	} {
		var got string
		if err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&got); err != nil {
			t.Fatalf("meta %s missing: %v", key, err)
		}
		if got != want {
			t.Errorf("meta %s = %q, want %q", key, got, want)
		}
	}

	var threshold string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'early_expiration_threshold'`).Scan(&threshold); err != nil {
		t.Fatalf("early_expiration_threshold missing: %v", err)
	}
}

func TestSearchTermsRecorded(t *testing.T) {
	path := writeArtifact(t, testHistory())

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer db.Close()

	var term, norm string
	err = db.QueryRow(`SELECT term, normalized_term FROM keyword_search_terms LIMIT 1`).Scan(&term, &norm)
	if err != nil {
		t.Fatalf("query search terms: %v", err)
	}
	if term != "suvat equations examples" || norm != "suvat equations examples" {
		t.Errorf("unexpected terms: %q / %q", term, norm)
	}
}

func TestDeterministicBytes(t *testing.T) {
	h := testHistory()

	var a, b bytes.Buffer
	if err := Write(context.Background(), h, &a); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(context.Background(), h, &b); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical histories encoded to different bytes")
	}
}

func TestReadRecentNewestFirst(t *testing.T) {
	path := writeArtifact(t, testHistory())

	recent, err := ReadRecent(context.Background(), path, 2)
	if err != nil {
		t.Fatalf("read recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2, got %d", len(recent))
	}
	if recent[0].Time.Before(recent[1].Time) {
		t.Error("recent visits not newest first")
	}
}

func TestReadStatsRejectsNonHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notadb")
	os.WriteFile(path, []byte("plain text"), 0o644)

	if _, err := ReadStats(context.Background(), path); err == nil {
		t.Fatal("expected error for non-database file")
	}
}
