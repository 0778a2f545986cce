package client

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Recognized keys of a raw query definition.
const (
	KeyIDs        = "ids"
	KeyStartDate  = "start-date"
	KeyEndDate    = "end-date"
	KeyMetrics    = "metrics"
	KeyDimensions = "dimensions"
	KeySort       = "sort"
	KeyMaxResults = "max-results"
)

var recognizedKeys = map[string]bool{
	KeyIDs:        true,
	KeyStartDate:  true,
	KeyEndDate:    true,
	KeyMetrics:    true,
	KeyDimensions: true,
	KeySort:       true,
	KeyMaxResults: true,
}

// ErrNoMetrics is returned when a query is built without any metric.
var ErrNoMetrics = errors.New("a query requires at least one metric")

// QuerySpec describes a single reporting request. It is immutable once built.
// Site ids and dates are passed to the API verbatim.
type QuerySpec struct {
	siteIDs    string
	startDate  string
	endDate    string
	metrics    []string
	dimensions []string
	sort       string
	maxResults int64
	limited    bool
}

// QueryOption sets an optional field of a QuerySpec.
type QueryOption func(*QuerySpec)

// WithDimensions groups the query by the given dimensions.
func WithDimensions(dimensions ...string) QueryOption {
	return func(q *QuerySpec) {
		q.dimensions = append([]string(nil), dimensions...)
	}
}

// WithSort orders rows. The value is a comma separated list of field names,
// a leading '-' meaning descending, e.g. "-ga:pageviews".
func WithSort(order string) QueryOption {
	return func(q *QuerySpec) {
		q.sort = order
	}
}

// WithMaxResults bounds the number of rows. The value is not validated.
func WithMaxResults(maxResults int) QueryOption {
	return func(q *QuerySpec) {
		q.maxResults = int64(maxResults)
		q.limited = true
	}
}

// NewQuerySpec builds a QuerySpec.
func NewQuerySpec(siteIDs string, startDate string, endDate string, metrics []string, opts ...QueryOption) (QuerySpec, error) {
	if len(metrics) == 0 {
		return QuerySpec{}, ErrNoMetrics
	}

	q := QuerySpec{
		siteIDs:   siteIDs,
		startDate: startDate,
		endDate:   endDate,
		metrics:   append([]string(nil), metrics...),
	}

	for _, opt := range opts {
		opt(&q)
	}

	return q, nil
}

// ParseQuerySpec builds a QuerySpec from a raw key/value definition such as
// {"ids": "ga:1234", "metrics": "ga:users,ga:sessions", ...}. Unknown keys are rejected.
func ParseQuerySpec(params map[string]string) (QuerySpec, error) {
	var unknown []string
	for key := range params {
		if !recognizedKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return QuerySpec{}, fmt.Errorf("unknown query fields: %s", strings.Join(unknown, ", "))
	}

	var opts []QueryOption

	if dimensions := splitList(params[KeyDimensions]); len(dimensions) > 0 {
		opts = append(opts, WithDimensions(dimensions...))
	}

	if order, ok := params[KeySort]; ok {
		opts = append(opts, WithSort(order))
	}

	if raw, ok := params[KeyMaxResults]; ok {
		maxResults, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return QuerySpec{}, fmt.Errorf("invalid %s %q: %w", KeyMaxResults, raw, err)
		}
		opts = append(opts, WithMaxResults(maxResults))
	}

	return NewQuerySpec(params[KeyIDs], params[KeyStartDate], params[KeyEndDate], splitList(params[KeyMetrics]), opts...)
}

// SiteIDs returns the site id, or comma joined ids, the query targets.
func (q QuerySpec) SiteIDs() string { return q.siteIDs }

// StartDate returns the first day of the period.
func (q QuerySpec) StartDate() string { return q.startDate }

// EndDate returns the last day of the period.
func (q QuerySpec) EndDate() string { return q.endDate }

// Metrics returns the requested metric names.
func (q QuerySpec) Metrics() []string { return append([]string(nil), q.metrics...) }

// Dimensions returns the requested dimension names.
func (q QuerySpec) Dimensions() []string { return append([]string(nil), q.dimensions...) }

// Sort returns the sort expression, or "" when rows are not ordered.
func (q QuerySpec) Sort() string { return q.sort }

// MaxResults returns the row bound and whether one was set.
func (q QuerySpec) MaxResults() (int64, bool) { return q.maxResults, q.limited }

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
