package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultSource is the application identifier sent with the login handshake.
	DefaultSource = "GA Feed"

	// DefaultLoginURL is the account login endpoint.
	DefaultLoginURL = "https://www.google.com/accounts/ClientLogin"

	analyticsService = "analytics"
	accountType      = "GOOGLE"
)

// Session is the authenticated handle used to authorize reporting requests.
type Session struct {
	token    string
	source   string
	issuedAt time.Time
}

// Source returns the application identifier the session was created with.
func (s *Session) Source() string {
	return s.source
}

// IssuedAt returns when the handshake completed.
func (s *Session) IssuedAt() time.Time {
	return s.issuedAt
}

func (s *Session) authorization() string {
	return "GoogleLogin auth=" + s.token
}

// Authenticate performs the login handshake against loginURL and returns a Session.
// Every failure, including network errors, is reported as an *AuthenticationError.
func Authenticate(loginURL string, login string, password string, source string, httpClient *http.Client) (*Session, error) {
	form := url.Values{
		"accountType": {accountType},
		"Email":       {login},
		"Passwd":      {password},
		"service":     {analyticsService},
		"source":      {source},
	}

	req, err := http.NewRequest("POST", loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthenticationError{Reason: "invalid login request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &AuthenticationError{Reason: "handshake failed", Err: err}
	}

	defer resp.Body.Close()

	fields, err := parseLoginResponse(resp.Body)
	if err != nil {
		return nil, &AuthenticationError{Reason: "malformed handshake response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		reason := fields["Error"]
		if reason == "" {
			reason = "invalid status code: " + resp.Status
		}
		return nil, &AuthenticationError{Reason: reason}
	}

	token := fields["Auth"]
	if token == "" {
		return nil, &AuthenticationError{Reason: "malformed handshake response", Err: errors.New("missing Auth token")}
	}

	return &Session{
		token:    token,
		source:   source,
		issuedAt: time.Now(),
	}, nil
}

// parseLoginResponse reads the key=value lines of a handshake response body.
func parseLoginResponse(body io.Reader) (map[string]string, error) {
	fields := map[string]string{}

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("unexpected line %q", line)
		}
		fields[key] = value
	}

	return fields, scanner.Err()
}
