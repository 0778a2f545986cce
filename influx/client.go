package influx

import (
	"strconv"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/gafeed/ga-feed/analytics"
)

const (
	metricsSeriesName  = "site-metrics"
	topPagesSeriesName = "top-pages"
)

// Client represents a connection to an InfluxDB instance
type Client struct {
	httpClient influx.Client
	database   string
}

// CreateClient creates an InfluxDB client
func CreateClient(address string, database string, username string, password string) (*Client, error) {
	config := influx.HTTPConfig{
		Addr:     address,
		Username: username,
		Password: password,
	}

	httpClient, err := influx.NewHTTPClient(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient: httpClient,
		database:   database,
	}

	return client, nil
}

// Close releases the underlying HTTP resources.
func (client *Client) Close() error {
	return client.httpClient.Close()
}

// SendMetrics writes the site metrics of a period as one point. Values that are
// not numeric are skipped; an empty map writes nothing.
func (client *Client) SendMetrics(profile string, timestamp time.Time, metrics analytics.MetricsMap) error {
	fields := map[string]interface{}{}
	for name, value := range metrics {
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		fields[name] = number
	}

	if len(fields) == 0 {
		return nil
	}

	bp, err := client.newBatch()
	if err != nil {
		return err
	}

	pt, err := influx.NewPoint(metricsSeriesName, map[string]string{"profile": profile}, fields, timestamp)
	if err != nil {
		return err
	}

	bp.AddPoint(pt)

	return client.httpClient.Write(bp)
}

// SendTopPages writes one point per page, tagged with its rank.
func (client *Client) SendTopPages(profile string, timestamp time.Time, pages []analytics.PageRow) error {
	if len(pages) == 0 {
		return nil
	}

	bp, err := client.newBatch()
	if err != nil {
		return err
	}

	for i, page := range pages {
		tags := map[string]string{
			"profile": profile,
			"rank":    strconv.Itoa(i + 1),
			"path":    page.Path,
		}
		fields := map[string]interface{}{
			"pageviews": page.Pageviews,
			"title":     page.Title,
		}

		pt, err := influx.NewPoint(topPagesSeriesName, tags, fields, timestamp)
		if err != nil {
			return err
		}

		bp.AddPoint(pt)
	}

	return client.httpClient.Write(bp)
}

func (client *Client) newBatch() (influx.BatchPoints, error) {
	return influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  client.database,
		Precision: "s",
	})
}
