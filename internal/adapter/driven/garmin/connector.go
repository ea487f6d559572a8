// Package garmin implements the GarminConnector and GarminClient ports
// against the Garmin Connect SSO and API endpoints.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/underguiz/garmin-body-composition/internal/domain/model"
	"github.com/underguiz/garmin-body-composition/internal/domain/port/driven"
)

const (
	defaultSSOBaseURL = "https://sso.garmin.com"
	defaultAPIBaseURL = "https://connectapi.garmin.com"

	signinPath        = "/sso/signin"
	preauthorizedPath = "/oauth-service/oauth/preauthorized"
	exchangePath      = "/oauth-service/oauth/exchange/user/2.0"
)

// ticketPattern extracts the service ticket embedded in the SSO signin
// response page.
var ticketPattern = regexp.MustCompile(`ticket=([^"&]+)`)

// Compile-time interface satisfaction check.
var _ driven.GarminConnector = (*Connector)(nil)

// Connector implements the driven.GarminConnector port. Sessions it creates
// talk to the API through the following transport stack:
//  1. httpcache (in-memory conditional request caching)
//  2. oauth2 (static bearer token source from the session bundle)
type Connector struct {
	httpClient *http.Client // unauthenticated; used for the SSO flow
	ssoURL     string
	apiURL     string
}

// NewConnector creates a Connector against the production Garmin endpoints.
func NewConnector() *Connector {
	return &Connector{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		ssoURL:     defaultSSOBaseURL,
		apiURL:     defaultAPIBaseURL,
	}
}

// NewConnectorWithHTTPClient creates a Connector with a custom http.Client
// and base URLs. This constructor is intended for testing, allowing
// injection of an httptest server.
func NewConnectorWithHTTPClient(httpClient *http.Client, ssoURL, apiURL string) *Connector {
	return &Connector{
		httpClient: httpClient,
		ssoURL:     strings.TrimSuffix(ssoURL, "/"),
		apiURL:     strings.TrimSuffix(apiURL, "/"),
	}
}

// Login performs the credential SSO flow: signin for a service ticket,
// ticket preauthorization for an OAuth1 token, then exchange for the OAuth2
// bearer token used on every API call.
func (c *Connector) Login(ctx context.Context, email, password string) (driven.GarminClient, *model.TokenBundle, error) {
	ticket, err := c.signin(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	oauth1, err := c.preauthorize(ctx, ticket)
	if err != nil {
		return nil, nil, err
	}

	oauth2Tok, err := c.exchange(ctx, oauth1)
	if err != nil {
		return nil, nil, err
	}

	bundle := &model.TokenBundle{OAuth1: oauth1, OAuth2: *oauth2Tok}
	return c.newClient(bundle), bundle, nil
}

// Resume constructs a client from a stored bundle and validates the session
// with a social profile probe, so rejected tokens fail here rather than on
// the first upload.
func (c *Connector) Resume(ctx context.Context, tokens *model.TokenBundle) (driven.GarminClient, error) {
	client := c.newClient(tokens)
	if _, err := client.SocialProfile(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// newClient builds the authorized API client for a token bundle.
func (c *Connector) newClient(bundle *model.TokenBundle) *Client {
	cached := httpcache.NewMemoryCacheTransport()
	cached.Transport = c.httpClient.Transport
	base := &http.Client{Transport: cached, Timeout: c.httpClient.Timeout}

	authCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	authorized := oauth2.NewClient(authCtx, oauth2.StaticTokenSource(&bundle.OAuth2))

	return &Client{
		httpClient: authorized,
		apiURL:     c.apiURL,
	}
}

// signin posts the credentials to the SSO endpoint and scrapes the service
// ticket out of the response page. A page without a ticket means the
// credentials were not accepted.
func (c *Connector) signin(ctx context.Context, email, password string) (string, error) {
	form := url.Values{
		"username": {email},
		"password": {password},
		"embed":    {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ssoURL+signinPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build signin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError("sso signin", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("sso signin", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("read signin response", err)
	}

	m := ticketPattern.FindSubmatch(body)
	if m == nil {
		return "", &driven.AuthenticationError{
			Err: fmt.Errorf("sso signin: no service ticket in response"),
		}
	}
	return string(m[1]), nil
}

// preauthorize trades the service ticket for an OAuth1 token. The endpoint
// answers with a URL-encoded form body.
func (c *Connector) preauthorize(ctx context.Context, ticket string) (model.OAuth1Token, error) {
	var tok model.OAuth1Token

	u := fmt.Sprintf("%s%s?ticket=%s&accepts-mfa-tokens=true", c.apiURL, preauthorizedPath, url.QueryEscape(ticket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return tok, fmt.Errorf("build preauthorized request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tok, transportError("oauth preauthorized", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tok, statusError("oauth preauthorized", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tok, transportError("read preauthorized response", err)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return tok, fmt.Errorf("parse preauthorized response: %w", err)
	}

	tok.Token = values.Get("oauth_token")
	tok.Secret = values.Get("oauth_token_secret")
	if tok.Token == "" || tok.Secret == "" {
		return tok, &driven.AuthenticationError{
			Err: fmt.Errorf("oauth preauthorized: incomplete oauth1 token in response"),
		}
	}
	return tok, nil
}

// exchangeResponse is the JSON body of the OAuth2 exchange endpoint.
type exchangeResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// exchange trades the OAuth1 token for the OAuth2 bearer token.
func (c *Connector) exchange(ctx context.Context, oauth1 model.OAuth1Token) (*oauth2.Token, error) {
	form := url.Values{
		"oauth_token":        {oauth1.Token},
		"oauth_token_secret": {oauth1.Secret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+exchangePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError("oauth exchange", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("oauth exchange", resp)
	}

	var body exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, &driven.AuthenticationError{
			Err: fmt.Errorf("oauth exchange: empty access token in response"),
		}
	}

	tok := &oauth2.Token{
		AccessToken:  body.AccessToken,
		TokenType:    body.TokenType,
		RefreshToken: body.RefreshToken,
	}
	if body.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return tok, nil
}
