package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPage(t *testing.T) {
	before := testutil.ToFloat64(PagesFetchedTotal.WithLabelValues("bing", "http", "ok"))
	RecordPage("bing", "http", 250*time.Millisecond, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(PagesFetchedTotal.WithLabelValues("bing", "http", "ok")))

	beforeErr := testutil.ToFloat64(PagesFetchedTotal.WithLabelValues("bing", "unknown", "error"))
	RecordPage("bing", "", time.Second, errors.New("boom"))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(PagesFetchedTotal.WithLabelValues("bing", "unknown", "error")))
}

func TestRecordSession(t *testing.T) {
	beforeDone := testutil.ToFloat64(SessionsTotal.WithLabelValues("stackoverflow", "done"))
	beforeResults := testutil.ToFloat64(ResultsTotal.WithLabelValues("stackoverflow"))

	RecordSession("stackoverflow", 15, nil)
	RecordSession("stackoverflow", 0, errors.New("blocked"))

	assert.Equal(t, beforeDone+1, testutil.ToFloat64(SessionsTotal.WithLabelValues("stackoverflow", "done")))
	assert.Equal(t, beforeResults+15, testutil.ToFloat64(ResultsTotal.WithLabelValues("stackoverflow")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(SessionsTotal.WithLabelValues("stackoverflow", "failed")), 1.0)
}

func TestHandler(t *testing.T) {
	RecordPage("wordpress", "colly", time.Second, nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trawler_pages_fetched_total")
	assert.Contains(t, string(body), "trawler_page_fetch_duration_seconds_bucket")
}
