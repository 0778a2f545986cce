package client

// Metric names understood by the reporting API.
const (
	MetricUsers              = "ga:users"
	MetricSessions           = "ga:sessions"
	MetricPageviews          = "ga:pageviews"
	MetricUniquePageviews    = "ga:uniquePageviews"
	MetricAvgSessionDuration = "ga:avgSessionDuration"
	MetricAvgTimeOnPage      = "ga:avgTimeOnPage"
	MetricPercentNewSessions = "ga:percentNewSessions"
)

// Dimension names understood by the reporting API.
const (
	DimensionPagePath  = "ga:pagePath"
	DimensionPageTitle = "ga:pageTitle"
)

// SiteMetrics contains the period metrics reported for a site.
var SiteMetrics = []string{
	MetricUsers,
	MetricSessions,
	MetricPageviews,
	MetricUniquePageviews,
	MetricAvgSessionDuration,
	MetricAvgTimeOnPage,
	MetricPercentNewSessions,
}
