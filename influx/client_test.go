package influx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gafeed/ga-feed/analytics"
)

type write struct {
	database string
	lines    []string
}

func newInfluxServer(t *testing.T) (*Client, *[]write) {
	t.Helper()

	var writes []write
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/write", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		writes = append(writes, write{
			database: r.URL.Query().Get("db"),
			lines:    strings.Split(strings.TrimSpace(string(body)), "\n"),
		})
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	client, err := CreateClient(server.URL, "analytics", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, &writes
}

var day = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

func TestSendMetrics(t *testing.T) {
	client, writes := newInfluxServer(t)

	err := client.SendMetrics("ga:1234", day, analytics.MetricsMap{
		"ga:users":              "100",
		"ga:avgSessionDuration": "65.5",
		"ga:unknown":            "n/a",
	})
	require.NoError(t, err)

	require.Len(t, *writes, 1)
	got := (*writes)[0]
	assert.Equal(t, "analytics", got.database)
	require.Len(t, got.lines, 1)

	line := got.lines[0]
	assert.True(t, strings.HasPrefix(line, "site-metrics,profile=ga:1234 "), line)
	assert.Contains(t, line, "ga:users=100")
	assert.Contains(t, line, "ga:avgSessionDuration=65.5")
	assert.NotContains(t, line, "ga:unknown")
	assert.True(t, strings.HasSuffix(line, " 1706659200"), line)
}

func TestSendMetricsSkipsEmpty(t *testing.T) {
	client, writes := newInfluxServer(t)

	require.NoError(t, client.SendMetrics("ga:1234", day, analytics.MetricsMap{}))
	require.NoError(t, client.SendMetrics("ga:1234", day, analytics.MetricsMap{"ga:users": "n/a"}))

	assert.Empty(t, *writes)
}

func TestSendTopPages(t *testing.T) {
	client, writes := newInfluxServer(t)

	err := client.SendTopPages("ga:1234", day, []analytics.PageRow{
		{Path: "/", Title: "Home", Pageviews: 120},
		{Path: "/about", Title: "About us", Pageviews: 30},
	})
	require.NoError(t, err)

	require.Len(t, *writes, 1)
	lines := (*writes)[0].lines
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "top-pages,path=/,profile=ga:1234,rank=1 "), lines[0])
	assert.Contains(t, lines[0], "pageviews=120i")
	assert.Contains(t, lines[0], `title="Home"`)

	assert.True(t, strings.HasPrefix(lines[1], "top-pages,path=/about,profile=ga:1234,rank=2 "), lines[1])
	assert.Contains(t, lines[1], `title="About us"`)
}

func TestSendTopPagesSkipsEmpty(t *testing.T) {
	client, writes := newInfluxServer(t)

	require.NoError(t, client.SendTopPages("ga:1234", day, nil))
	assert.Empty(t, *writes)
}

func TestSendReportsWriteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database not found"}`))
	}))
	defer server.Close()

	client, err := CreateClient(server.URL, "missing", "", "")
	require.NoError(t, err)
	defer client.Close()

	err = client.SendMetrics("ga:1234", day, analytics.MetricsMap{"ga:users": "1"})
	assert.Error(t, err)
}
