package client

import "net/http"

// sessionTransport attaches the session credentials to every outgoing request.
type sessionTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.session.authorization())

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// authorizedClient returns a copy of httpClient whose requests carry the session token.
func authorizedClient(session *Session, httpClient *http.Client) *http.Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	authorized := *httpClient
	authorized.Transport = &sessionTransport{session: session, base: httpClient.Transport}
	return &authorized
}
