// Package flickr implements the credential adapter for Flickr's legacy
// frob token-exchange flow. The host framework constructs one credential
// per realm, redirects users to AuthorizationURL, and calls Authenticate
// on the callback request.
package flickr

import (
	"context"
	"fmt"
	"net/url"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-flickr-auth/core"
	"github.com/goliatone/go-flickr-auth/identity"
	"github.com/goliatone/go-flickr-auth/providers/flickr/rest"
)

const (
	CredentialID = "flickr"

	// MethodGetToken exchanges the one-time frob for a durable token and
	// the authenticated user's identity.
	MethodGetToken = "flickr.auth.getToken"
)

// APIClient is the slice of the REST client the credential consumes.
type APIClient interface {
	Execute(ctx context.Context, method string, params url.Values) (map[string]any, error)
	AuthURL(perms string, frob string) string
}

type Config struct {
	// Defaults carries plugin-level settings; Realm carries realm-level
	// overrides, which win on collision.
	Defaults map[string]any
	Realm    map[string]any

	// Client replaces the built-in REST client when set. HTTPClient and
	// Logger only apply to the built-in client.
	Client     APIClient
	HTTPClient rest.HTTPDoer
	Logger     core.Logger
}

// Credential is stateless across requests: all per-attempt data lives in
// the Authenticate call, so one instance serves concurrent requests.
type Credential struct {
	settings core.Settings
	client   APIClient
	logger   core.Logger
}

// New resolves and validates settings, then wires the API client. A missing
// key, secret, or perms fails construction outright; no network call is
// made here.
func New(cfg Config) (*Credential, error) {
	settings, err := core.ResolveSettings(cfg.Defaults, cfg.Realm)
	if err != nil {
		return nil, err
	}
	_, logger := glog.Resolve("flickr-auth", nil, cfg.Logger)
	logger = glog.Ensure(logger)

	client := cfg.Client
	if client == nil {
		restClient, restErr := rest.New(rest.Config{
			APIKey:     settings.Key,
			Secret:     settings.Secret,
			HTTPClient: cfg.HTTPClient,
			Logger:     logger,
		})
		if restErr != nil {
			return nil, restErr
		}
		client = restClient
	}

	return &Credential{
		settings: settings,
		client:   client,
		logger:   logger,
	}, nil
}

func (c *Credential) ID() string {
	return CredentialID
}

// Settings returns the resolved, immutable configuration.
func (c *Credential) Settings() core.Settings {
	if c == nil {
		return core.Settings{}
	}
	return c.settings
}

// AuthorizationURL returns the signed login URL for the configured
// permission level.
func (c *Credential) AuthorizationURL() (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("flickr: credential is not configured")
	}
	return c.client.AuthURL(c.settings.Perms, ""), nil
}

// LoginURL is the name the predecessor module used for AuthorizationURL.
// Both return identical results.
func (c *Credential) LoginURL() (string, error) {
	return c.AuthorizationURL()
}

// Authenticate drives the callback step: read the frob, exchange it,
// flatten the identity payload, and delegate to the host resolver. An
// absent frob means no attempt is in progress and reports absence without
// touching the network or the resolver. Remote failures propagate as
// errors; a resolver miss collapses to absence.
func (c *Credential) Authenticate(
	ctx context.Context,
	req core.AuthenticateRequest,
	resolve core.UserResolver,
) (any, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, fmt.Errorf("flickr: credential is not configured")
	}
	if resolve == nil {
		return nil, false, fmt.Errorf("flickr: user resolver is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	frob := req.Frob()
	if frob == "" {
		return nil, false, nil
	}

	params := url.Values{}
	params.Set(core.FrobParam, frob)
	rsp, err := c.client.Execute(ctx, MethodGetToken, params)
	if err != nil {
		return nil, false, err
	}

	authNode, err := identity.AuthNode(rsp)
	if err != nil {
		return nil, false, err
	}
	payload, err := identity.FlattenAuth(authNode)
	if err != nil {
		return nil, false, err
	}

	user, ok, err := resolve(ctx, payload, req)
	if err != nil {
		return nil, false, err
	}
	if !ok || user == nil {
		c.logger.WithContext(ctx).Info("flickr user not resolved", "nsid", payload["nsid"])
		return nil, false, nil
	}
	c.logger.WithContext(ctx).Info("flickr user resolved", "nsid", payload["nsid"])
	return user, true, nil
}

var _ core.Credential = (*Credential)(nil)
