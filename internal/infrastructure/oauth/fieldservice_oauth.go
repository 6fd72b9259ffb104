package oauth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"resident-request-service/pkg/logger"
)

// FieldServiceOAuth handles client-credentials authentication against the
// field-service vendor API
type FieldServiceOAuth struct {
	config      *clientcredentials.Config
	staticToken string
	logger      logger.Logger
}

// NewFieldServiceOAuth creates a new OAuth handler. When tokenURL is empty
// a static bearer token is used instead (local/dev setups).
func NewFieldServiceOAuth(tokenURL, clientID, clientSecret, staticToken string, logger logger.Logger) *FieldServiceOAuth {
	var config *clientcredentials.Config
	if tokenURL != "" {
		config = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		}
	}

	return &FieldServiceOAuth{
		config:      config,
		staticToken: staticToken,
		logger:      logger,
	}
}

// HTTPClient returns an http client that attaches vendor credentials to
// every request and refreshes tokens as they expire
func (o *FieldServiceOAuth) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	if o.config == nil {
		o.logger.Warn("Field-service OAuth not configured, using static token")
		return &http.Client{
			Timeout:   timeout,
			Transport: &staticTokenTransport{token: o.staticToken},
		}
	}

	client := o.config.Client(ctx)
	client.Timeout = timeout
	return client
}

// TokenSource exposes the underlying token source for callers that manage
// their own transport
func (o *FieldServiceOAuth) TokenSource(ctx context.Context) oauth2.TokenSource {
	if o.config == nil {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.staticToken})
	}
	return o.config.TokenSource(ctx)
}

type staticTokenTransport struct {
	token string
}

func (t *staticTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}
