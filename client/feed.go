package client

import (
	analyticsreporting "google.golang.org/api/analyticsreporting/v4"
)

// Feed is the response of a reporting query: period aggregates plus dimension grouped rows.
type Feed interface {
	// Aggregate returns the total of a metric over the whole period, if the API reported one.
	Aggregate(metric string) (string, bool)
	// Rows returns the dimension grouped entries in the order the API returned them.
	Rows() []Row
}

// Row is one dimension grouped entry of a Feed.
type Row struct {
	Dimensions map[string]string
	Metrics    map[string]string
}

// Dimension returns the value of a dimension, or "" when the row does not carry it.
func (r Row) Dimension(name string) string {
	return r.Dimensions[name]
}

// Metric returns the value of a metric, or "" when the row does not carry it.
func (r Row) Metric(name string) string {
	return r.Metrics[name]
}

// reportFeed adapts a v4 Report to the Feed interface.
type reportFeed struct {
	aggregates map[string]string
	rows       []Row
}

func (f *reportFeed) Aggregate(metric string) (string, bool) {
	value, ok := f.aggregates[metric]
	return value, ok
}

func (f *reportFeed) Rows() []Row {
	return f.rows
}

// newReportFeed reads the first date range of a report. A nil report yields an empty feed.
func newReportFeed(report *analyticsreporting.Report) *reportFeed {
	feed := &reportFeed{aggregates: map[string]string{}}
	if report == nil || report.ColumnHeader == nil || report.Data == nil {
		return feed
	}

	dimensionNames := report.ColumnHeader.Dimensions

	var metricNames []string
	if report.ColumnHeader.MetricHeader != nil {
		for _, entry := range report.ColumnHeader.MetricHeader.MetricHeaderEntries {
			if entry != nil {
				metricNames = append(metricNames, entry.Name)
			} else {
				metricNames = append(metricNames, "")
			}
		}
	}

	if len(report.Data.Totals) > 0 && report.Data.Totals[0] != nil {
		zipInto(feed.aggregates, metricNames, report.Data.Totals[0].Values)
	}

	feed.rows = make([]Row, 0, len(report.Data.Rows))
	for _, reportRow := range report.Data.Rows {
		if reportRow == nil {
			continue
		}

		row := Row{
			Dimensions: map[string]string{},
			Metrics:    map[string]string{},
		}
		zipInto(row.Dimensions, dimensionNames, reportRow.Dimensions)
		if len(reportRow.Metrics) > 0 && reportRow.Metrics[0] != nil {
			zipInto(row.Metrics, metricNames, reportRow.Metrics[0].Values)
		}

		feed.rows = append(feed.rows, row)
	}

	return feed
}

func zipInto(target map[string]string, names []string, values []string) {
	for i, name := range names {
		if name == "" || i >= len(values) {
			continue
		}
		target[name] = values[i]
	}
}
