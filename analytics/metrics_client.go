// Package analytics exposes the site reports built on top of the reporting client.
package analytics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gafeed/ga-feed/client"
	"github.com/gafeed/ga-feed/logger"
)

// DefaultTopCount is the number of pages GetTopPages is usually asked for.
const DefaultTopCount = 5

// MetricsMap maps a metric name to its value for the queried period.
type MetricsMap map[string]string

// PageRow is one entry of a top pages report.
type PageRow struct {
	Path      string
	Title     string
	Pageviews int64
}

// Reporter executes a query and returns its feed.
type Reporter interface {
	GetDataFeed(spec client.QuerySpec) (client.Feed, error)
}

// MetricsClient queries site reports through a session authenticated once at construction.
// It is not safe for concurrent use; use one client per goroutine.
type MetricsClient struct {
	reporter Reporter
	log      logger.Logger
}

type options struct {
	source     string
	loginURL   string
	endpoint   string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures New.
type Option func(*options)

// WithSource sets the application identifier sent with the login handshake.
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// WithLoginURL overrides the login endpoint.
func WithLoginURL(loginURL string) Option {
	return func(o *options) { o.loginURL = loginURL }
}

// WithEndpoint overrides the reporting API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for the handshake and every query.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// New authenticates with login and password and returns a client owning the resulting session.
// A rejected or failed handshake returns a *client.AuthenticationError and no client.
func New(login string, password string, opts ...Option) (*MetricsClient, error) {
	o := options{
		source:     client.DefaultSource,
		loginURL:   client.DefaultLoginURL,
		endpoint:   client.DefaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Log,
	}
	for _, opt := range opts {
		opt(&o)
	}

	o.log.Debug("authenticating %v as %v", o.loginURL, login)

	session, err := client.Authenticate(o.loginURL, login, password, o.source, o.httpClient)
	if err != nil {
		return nil, err
	}

	reporter, err := client.CreateClient(session, o.endpoint, o.httpClient)
	if err != nil {
		return nil, err
	}

	return newMetricsClient(reporter, o.log), nil
}

func newMetricsClient(reporter Reporter, log logger.Logger) *MetricsClient {
	return &MetricsClient{reporter: reporter, log: log}
}

// Query sends an arbitrary query and returns the raw feed.
func (c *MetricsClient) Query(spec client.QuerySpec) (client.Feed, error) {
	c.log.Debug("querying %v from %v to %v: metrics=%v dimensions=%v sort=%q",
		spec.SiteIDs(), spec.StartDate(), spec.EndDate(),
		strings.Join(spec.Metrics(), ","), strings.Join(spec.Dimensions(), ","), spec.Sort())

	return c.reporter.GetDataFeed(spec)
}

// GetMetrics returns the site metrics of the period. Metrics the API reports no
// aggregate for are left out of the map.
func (c *MetricsClient) GetMetrics(ids string, startDate string, endDate string) (MetricsMap, error) {
	spec, err := client.NewQuerySpec(ids, startDate, endDate, client.SiteMetrics)
	if err != nil {
		return nil, err
	}

	feed, err := c.Query(spec)
	if err != nil {
		return nil, err
	}

	metrics := MetricsMap{}
	for _, metric := range spec.Metrics() {
		if value, ok := feed.Aggregate(metric); ok {
			metrics[metric] = value
		}
	}

	return metrics, nil
}

// GetPageviews returns the number of pageviews of the period, or 0 when the API reports none.
func (c *MetricsClient) GetPageviews(ids string, startDate string, endDate string) (int64, error) {
	spec, err := client.NewQuerySpec(ids, startDate, endDate, []string{client.MetricPageviews})
	if err != nil {
		return 0, err
	}

	feed, err := c.Query(spec)
	if err != nil {
		return 0, err
	}

	value, ok := feed.Aggregate(client.MetricPageviews)
	if !ok {
		return 0, nil
	}

	return parseCount(value)
}

// GetTopPages returns up to topCount pages ordered by pageviews, most viewed first.
// topCount is handed to the API unchecked.
func (c *MetricsClient) GetTopPages(ids string, startDate string, endDate string, topCount int) ([]PageRow, error) {
	spec, err := client.NewQuerySpec(ids, startDate, endDate,
		[]string{client.MetricPageviews},
		client.WithDimensions(client.DimensionPagePath, client.DimensionPageTitle),
		client.WithSort("-"+client.MetricPageviews),
		client.WithMaxResults(topCount),
	)
	if err != nil {
		return nil, err
	}

	feed, err := c.Query(spec)
	if err != nil {
		return nil, err
	}

	rows := feed.Rows()
	pages := make([]PageRow, 0, len(rows))
	for _, row := range rows {
		pageviews, err := parseCount(row.Metric(client.MetricPageviews))
		if err != nil {
			return nil, err
		}

		pages = append(pages, PageRow{
			Path:      row.Dimension(client.DimensionPagePath),
			Title:     row.Dimension(client.DimensionPageTitle),
			Pageviews: pageviews,
		})
	}

	return pages, nil
}

func parseCount(value string) (int64, error) {
	count, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &client.QueryError{Message: "malformed count " + strconv.Quote(value), Err: err}
	}
	return count, nil
}
