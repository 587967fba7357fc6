// Package chromedb encodes a generated history into Chrome's on-disk
// History store format, and decodes existing stores for inspection. It is
// the only package coupled to the external schema.
package chromedb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/tanwk/historygen/internal/model"
)

// Visit transition encoding: a plain link navigation that both starts and
// ends its redirect chain. Nothing in a generated history is hand-typed,
// so every visit carries the link transition and typed_count stays 0.
const (
	transitionChainStart = 0x10000000
	transitionChainEnd   = 0x20000000
	transitionLink       = 0 | transitionChainStart | transitionChainEnd
)

// Meta rows Chrome requires before it will open the store.
const (
	metaVersion           = "70"
	metaCompatibleVersion = "16"
)

// expirationWindow backdates the early_expiration_threshold meta row
// relative to the newest visit.
const expirationWindow = 90 * 24 * time.Hour

// Write encodes the history into a Chrome History database and streams the
// finished file to w. Encoding happens in a scratch file that is always
// removed; a partial database is never emitted.
func Write(ctx context.Context, h *model.GeneratedHistory, w io.Writer) (err error) {
	scratch := filepath.Join(os.TempDir(), "historygen-"+ulid.Make().String()+".sqlite")
	defer os.Remove(scratch)

	if err := encode(ctx, h, scratch); err != nil {
		return err
	}

	f, err := os.Open(scratch)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("stream artifact: %w", err)
	}
	return nil
}

func encode(ctx context.Context, h *model.GeneratedHistory, path string) error {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(delete)&_pragma=synchronous(full)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := writeMeta(ctx, db, h); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeVisits(ctx, tx, h); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeMeta(ctx context.Context, db *sql.DB, h *model.GeneratedHistory) error {
	var threshold int64
	if n := len(h.Visits); n > 0 {
		threshold = ToChromeTime(h.Visits[n-1].VisitTime.Add(-expirationWindow))
	}

	rows := [][2]string{
		{"version", metaVersion},
		{"last_compatible_version", metaCompatibleVersion},
		{"mmap_status", "-1"},
		{"early_expiration_threshold", fmt.Sprintf("%d", threshold)},
	}
	for _, r := range rows {
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO meta(key, value) VALUES(?, ?)`, r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

// urlAgg accumulates per-URL aggregates in first-seen order so url ids are
// deterministic for a given visit sequence.
type urlAgg struct {
	id        int64
	title     string
	count     int
	lastVisit int64
}

func writeVisits(ctx context.Context, tx *sql.Tx, h *model.GeneratedHistory) error {
	byURL := make(map[string]*urlAgg, len(h.Visits))
	var order []string
	visitURL := make(map[int64]string, len(h.Visits))

	for _, v := range h.Visits {
		ct := ToChromeTime(v.VisitTime)
		visitURL[v.ID] = v.URL
		agg, ok := byURL[v.URL]
		if !ok {
			agg = &urlAgg{id: int64(len(order)) + 1, title: v.Title}
			byURL[v.URL] = agg
			order = append(order, v.URL)
		}
		agg.count++
		if ct > agg.lastVisit {
			agg.lastVisit = ct
		}
	}

	for _, u := range order {
		agg := byURL[u]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO urls(id, url, title, visit_count, typed_count, last_visit_time, hidden)
			 VALUES(?, ?, ?, ?, 0, ?, 0)`,
			agg.id, u, agg.title, agg.count, agg.lastVisit); err != nil {
			return fmt.Errorf("insert url %s: %w", u, err)
		}
	}

	var prevTime int64
	for i, v := range h.Visits {
		ct := ToChromeTime(v.VisitTime)
		durMicros := v.Duration.Microseconds()

		var referrerURL any
		if v.ReferringID != 0 {
			referrerURL = visitURL[v.ReferringID]
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO visits(id, url, visit_time, from_visit, external_referrer_url, transition,
			   visit_duration, incremented_omnibox_typed_score, is_known_to_sync,
			   consider_for_ntp_most_visited, visited_link_id, app_id)
			 VALUES(?, ?, ?, ?, ?, ?, ?, 0, 0, 0, 0, NULL)`,
			v.ID, byURL[v.URL].id, ct, v.ReferringID, referrerURL, transitionLink, durMicros); err != nil {
			return fmt.Errorf("insert visit %d: %w", v.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO visit_source(id, source) VALUES(?, 0)`, v.ID); err != nil {
			return fmt.Errorf("insert visit source %d: %w", v.ID, err)
		}
		if err := writeAnnotations(ctx, tx, v, ct, durMicros, prevTime, i == 0); err != nil {
			return err
		}
		if v.SearchTerm != "" {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO keyword_search_terms(keyword_id, url_id, term, normalized_term)
				 VALUES(2, ?, ?, ?)`,
				byURL[v.URL].id, v.SearchTerm, normalizeTerm(v.SearchTerm)); err != nil {
				return fmt.Errorf("insert search term for visit %d: %w", v.ID, err)
			}
		}
		prevTime = ct
	}
	return nil
}

// writeAnnotations fills the per-visit annotation rows Chrome keeps
// alongside visits. All values derive from the visit itself so the output
// stays a pure function of the visit sequence.
func writeAnnotations(ctx context.Context, tx *sql.Tx, v model.VisitRecord, ct, durMicros, prevTime int64, first bool) error {
	var term, normURL any
	if v.SearchTerm != "" {
		term = v.SearchTerm
		normURL = v.URL
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO content_annotations(visit_id, visibility_score, floc_protected_score, categories,
		   page_topics_model_version, annotation_flags, entities, related_searches,
		   search_normalized_url, search_terms, alternative_title, page_language, password_state, has_url_keyed_image)
		 VALUES(?, -1, NULL, NULL, -1, 0, NULL, NULL, ?, ?, NULL, NULL, 0, 0)`,
		v.ID, normURL, term); err != nil {
		return fmt.Errorf("insert content annotations %d: %w", v.ID, err)
	}

	sinceLast := int64(-1_000_000)
	if !first {
		sinceLast = ct - prevTime
	}
	windowID := int64(1_000_000_000) + int64(v.SessionID)
	endReason := 3 + v.ID%4

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO context_annotations(visit_id, context_annotation_flags, duration_since_last_visit,
		   page_end_reason, total_foreground_duration, browser_type,
		   window_id, tab_id, task_id, root_task_id, parent_task_id, response_code)
		 VALUES(?, 0, ?, ?, ?, 1, ?, ?, ?, ?, -1, 200)`,
		v.ID, sinceLast, endReason, durMicros, windowID, windowID+1, ct, ct); err != nil {
		return fmt.Errorf("insert context annotations %d: %w", v.ID, err)
	}
	return nil
}

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeTerm(s string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
