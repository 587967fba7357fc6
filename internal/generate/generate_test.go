package generate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanwk/historygen/internal/chromedb"
	"github.com/tanwk/historygen/internal/config"
	"github.com/tanwk/historygen/internal/logging"
	"github.com/tanwk/historygen/internal/model"
)

var testRef = time.Date(2026, 3, 20, 21, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Timezone = "UTC"
	s, err := NewService(cfg, logging.NewLogger("error", io.Discard))
	require.NoError(t, err)
	return s
}

func seedp(v int64) *int64 { return &v }

func TestPreviewDeterministic(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	req := Request{Weeks: 2, Seed: seedp(42), Reference: testRef}

	a, err := s.Preview(ctx, req)
	require.NoError(t, err)
	b, err := s.Preview(ctx, req)
	require.NoError(t, err)

	require.Equal(t, a, b)
	assert.Equal(t, int64(42), a.Seed)
	assert.Equal(t, 2, a.Weeks)
	assert.NotEmpty(t, a.Entries)
}

func TestGenerateByteIdentical(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	req := Request{Weeks: 1, Seed: seedp(42), Reference: testRef}

	var a, b bytes.Buffer
	ra, err := s.Generate(ctx, req, &a)
	require.NoError(t, err)
	rb, err := s.Generate(ctx, req, &b)
	require.NoError(t, err)

	assert.Equal(t, ra, rb)
	require.True(t, bytes.Equal(a.Bytes(), b.Bytes()), "artifacts differ for identical inputs")
}

func TestPreviewMatchesArtifactPrefix(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	req := Request{Weeks: 3, Seed: seedp(42), Reference: testRef}

	pv, err := s.Preview(ctx, req)
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := s.Generate(ctx, req, &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(42), res.Seed)
	assert.Equal(t, pv.TotalVisits, res.TotalVisits)

	path := filepath.Join(t.TempDir(), "History")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	recent, err := chromedb.ReadRecent(ctx, path, len(pv.Entries))
	require.NoError(t, err)
	require.Len(t, recent, len(pv.Entries))

	for i, e := range pv.Entries {
		assert.Equal(t, recent[i].URL, e.URL, "entry %d url", i)
		assert.Equal(t, recent[i].Time.UTC().Format(previewTimeLayout), e.Time, "entry %d time", i)
	}

	st, err := chromedb.ReadStats(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, res.TotalVisits, st.VisitCount)
}

func TestVisitTimesStrictlyIncreasing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for seed := int64(1); seed <= 25; seed++ {
		h, err := s.run(ctx, Request{Weeks: 2, Seed: seedp(seed), Reference: testRef})
		require.NoError(t, err)
		require.NotEmpty(t, h.Visits)

		for i := 1; i < len(h.Visits); i++ {
			require.True(t, h.Visits[i-1].VisitTime.Before(h.Visits[i].VisitTime),
				"seed %d: visit %d not after predecessor", seed, h.Visits[i].ID)
			require.Equal(t, int64(i+1), h.Visits[i].ID)
		}
	}
}

func TestReferrerLinksStayInSession(t *testing.T) {
	s := newTestService(t)
	h, err := s.run(context.Background(), Request{Weeks: 2, Seed: seedp(9), Reference: testRef})
	require.NoError(t, err)

	byID := map[int64]model.VisitRecord{}
	for _, v := range h.Visits {
		byID[v.ID] = v
	}
	for _, v := range h.Visits {
		if v.ReferringID == 0 {
			continue
		}
		ref, ok := byID[v.ReferringID]
		require.True(t, ok, "visit %d refers to unknown visit %d", v.ID, v.ReferringID)
		assert.Less(t, ref.ID, v.ID)
		assert.Equal(t, ref.SessionID, v.SessionID,
			"visit %d referrer crosses session boundary", v.ID)
	}
}

func TestPolicyCompliance(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sampled := 0
	for seed := int64(1); seed <= 100; seed++ {
		h, err := s.run(ctx, Request{Weeks: 1, Seed: seedp(seed), Reference: testRef})
		require.NoError(t, err)
		for _, v := range h.Visits {
			require.True(t, model.ValidCategories[v.Category],
				"seed %d: visit to disallowed category %q (%s)", seed, v.Category, v.URL)
			sampled++
		}
	}
	require.Greater(t, sampled, 5000, "not enough visits sampled for policy check")
}

func TestVisitCountScalesWithWeeks(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	cfg := config.Default()

	prev := 0
	for weeks := 1; weeks <= 4; weeks++ {
		h, err := s.run(ctx, Request{Weeks: weeks, Seed: seedp(42), Reference: testRef})
		require.NoError(t, err)

		total := h.TotalVisits()
		assert.GreaterOrEqual(t, total, prev, "weeks=%d shrank total", weeks)
		assert.LessOrEqual(t, total, cfg.MaxVisitsPerWeek*weeks, "weeks=%d exceeds cap", weeks)
		prev = total
	}
}

func TestMaxWeeksBoundary(t *testing.T) {
	s := newTestService(t)
	pv, err := s.Preview(context.Background(), Request{Weeks: 12, Seed: seedp(1), Reference: testRef})
	require.NoError(t, err)
	assert.Greater(t, pv.TotalVisits, 0)
}

func TestInvalidWeeksRejected(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, weeks := range []int{0, 13, -1} {
		_, err := s.Preview(ctx, Request{Weeks: weeks, Seed: seedp(1), Reference: testRef})
		require.Error(t, err, "weeks=%d accepted", weeks)
		assert.True(t, errors.Is(err, ErrInvalidInput), "weeks=%d: wrong error class", weeks)

		var buf bytes.Buffer
		_, err = s.Generate(ctx, Request{Weeks: weeks, Seed: seedp(1), Reference: testRef}, &buf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Zero(t, buf.Len(), "weeks=%d: bytes written despite rejection", weeks)
	}
}

func TestInvalidPreviewLimitRejected(t *testing.T) {
	s := newTestService(t)
	_, err := s.Preview(context.Background(), Request{Weeks: 1, Seed: seedp(1), Limit: 5000, Reference: testRef})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAbsentSeedResolved(t *testing.T) {
	s := newTestService(t)
	pv, err := s.Preview(context.Background(), Request{Weeks: 1, Reference: testRef})
	require.NoError(t, err)
	assert.Greater(t, pv.Seed, int64(0), "fresh seed not reported")

	// The reported seed reproduces the run exactly.
	again, err := s.Preview(context.Background(), Request{Weeks: 1, Seed: seedp(pv.Seed), Reference: testRef})
	require.NoError(t, err)
	assert.Equal(t, pv, again)
}

func TestPreviewLimitBounds(t *testing.T) {
	s := newTestService(t)
	pv, err := s.Preview(context.Background(), Request{Weeks: 3, Seed: seedp(42), Limit: 10, Reference: testRef})
	require.NoError(t, err)
	assert.Len(t, pv.Entries, 10)

	// Entries come newest first.
	for i := 1; i < len(pv.Entries); i++ {
		assert.GreaterOrEqual(t, pv.Entries[i-1].Time, pv.Entries[i].Time)
	}
}
