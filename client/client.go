package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	analyticsreporting "google.golang.org/api/analyticsreporting/v4"
	"google.golang.org/api/option"
)

// DefaultEndpoint is the base URL of the reporting API.
const DefaultEndpoint = "https://analyticsreporting.googleapis.com/"

// Client executes reporting queries on behalf of an authenticated Session.
type Client struct {
	service *analyticsreporting.Service
	session *Session
}

// CreateClient creates a Client given a session, the reporting endpoint and an httpClient.
// An empty endpoint selects DefaultEndpoint.
func CreateClient(session *Session, endpoint string, httpClient *http.Client) (*Client, error) {
	if session == nil {
		return nil, errors.New("a session is required")
	}

	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	service, err := analyticsreporting.NewService(
		context.Background(),
		option.WithHTTPClient(authorizedClient(session, httpClient)),
		option.WithEndpoint(strings.TrimSuffix(endpoint, "/")+"/"),
	)
	if err != nil {
		return nil, err
	}

	service.UserAgent = session.Source()

	return &Client{
		service: service,
		session: session,
	}, nil
}

// Session returns the session the client authorizes requests with.
func (client *Client) Session() *Session {
	return client.session
}

// GetDataFeed sends a single query and returns its feed.
func (client *Client) GetDataFeed(spec QuerySpec) (Feed, error) {
	request := &analyticsreporting.GetReportsRequest{
		ReportRequests: []*analyticsreporting.ReportRequest{buildReportRequest(spec)},
	}

	response, err := client.service.Reports.BatchGet(request).Do()
	if err != nil {
		return nil, classifyError("reports.batchGet", err)
	}

	if len(response.Reports) == 0 {
		return newReportFeed(nil), nil
	}

	return newReportFeed(response.Reports[0]), nil
}

func buildReportRequest(spec QuerySpec) *analyticsreporting.ReportRequest {
	request := &analyticsreporting.ReportRequest{
		ViewId: spec.SiteIDs(),
		DateRanges: []*analyticsreporting.DateRange{
			{StartDate: spec.StartDate(), EndDate: spec.EndDate()},
		},
	}

	for _, metric := range spec.Metrics() {
		request.Metrics = append(request.Metrics, &analyticsreporting.Metric{Expression: metric})
	}

	for _, dimension := range spec.Dimensions() {
		request.Dimensions = append(request.Dimensions, &analyticsreporting.Dimension{Name: dimension})
	}

	for _, field := range splitList(spec.Sort()) {
		orderBy := &analyticsreporting.OrderBy{FieldName: field, SortOrder: "ASCENDING"}
		if strings.HasPrefix(field, "-") {
			orderBy.FieldName = strings.TrimPrefix(field, "-")
			orderBy.SortOrder = "DESCENDING"
		}
		request.OrderBys = append(request.OrderBys, orderBy)
	}

	// The bound goes out even when zero or negative; the API decides what to do with it.
	if maxResults, ok := spec.MaxResults(); ok {
		request.PageSize = maxResults
		request.ForceSendFields = append(request.ForceSendFields, "PageSize")
	}

	return request
}
