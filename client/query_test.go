package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuerySpec(t *testing.T) {
	metrics := []string{MetricUsers, MetricSessions}

	spec, err := NewQuerySpec("ga:1,ga:2", "2024-01-01", "2024-01-31", metrics)
	require.NoError(t, err)

	assert.Equal(t, "ga:1,ga:2", spec.SiteIDs())
	assert.Equal(t, "2024-01-01", spec.StartDate())
	assert.Equal(t, "2024-01-31", spec.EndDate())
	assert.Equal(t, metrics, spec.Metrics())
	assert.Empty(t, spec.Dimensions())
	assert.Empty(t, spec.Sort())

	_, limited := spec.MaxResults()
	assert.False(t, limited)
}

func TestNewQuerySpecRequiresMetrics(t *testing.T) {
	_, err := NewQuerySpec("ga:1", "2024-01-01", "2024-01-31", nil)
	assert.ErrorIs(t, err, ErrNoMetrics)
}

func TestQuerySpecIsImmutable(t *testing.T) {
	metrics := []string{MetricUsers}
	dimensions := []string{DimensionPagePath}

	spec, err := NewQuerySpec("ga:1", "2024-01-01", "2024-01-31", metrics, WithDimensions(dimensions...))
	require.NoError(t, err)

	metrics[0] = "ga:changed"
	dimensions[0] = "ga:changed"
	spec.Metrics()[0] = "ga:changed"
	spec.Dimensions()[0] = "ga:changed"

	assert.Equal(t, []string{MetricUsers}, spec.Metrics())
	assert.Equal(t, []string{DimensionPagePath}, spec.Dimensions())
}

func TestParseQuerySpec(t *testing.T) {
	spec, err := ParseQuerySpec(map[string]string{
		KeyIDs:        "ga:1234",
		KeyStartDate:  "2024-01-01",
		KeyEndDate:    "2024-01-31",
		KeyMetrics:    "ga:pageviews, ga:users",
		KeyDimensions: "ga:pagePath,ga:pageTitle",
		KeySort:       "-ga:pageviews",
		KeyMaxResults: "10",
	})
	require.NoError(t, err)

	assert.Equal(t, "ga:1234", spec.SiteIDs())
	assert.Equal(t, []string{"ga:pageviews", "ga:users"}, spec.Metrics())
	assert.Equal(t, []string{"ga:pagePath", "ga:pageTitle"}, spec.Dimensions())
	assert.Equal(t, "-ga:pageviews", spec.Sort())

	maxResults, limited := spec.MaxResults()
	assert.True(t, limited)
	assert.Equal(t, int64(10), maxResults)
}

func TestParseQuerySpecErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		wantErr string
	}{
		{
			name: "unknown fields",
			params: map[string]string{
				KeyMetrics: "ga:users",
				"segment":  "gaid::-1",
				"filters":  "ga:country==Brazil",
			},
			wantErr: "unknown query fields: filters, segment",
		},
		{
			name: "invalid max results",
			params: map[string]string{
				KeyMetrics:    "ga:users",
				KeyMaxResults: "five",
			},
			wantErr: `invalid max-results "five"`,
		},
		{
			name:    "no metrics",
			params:  map[string]string{KeyIDs: "ga:1", KeyMetrics: " , "},
			wantErr: ErrNoMetrics.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuerySpec(tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
