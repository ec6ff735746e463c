// Package rest implements the signed REST client the flickr credential
// uses for the token-exchange call and the authorization URL.
package rest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	mxj "github.com/clbanning/mxj/v2"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/goliatone/go-flickr-auth/core"
)

const (
	DefaultEndpoint     = "https://api.flickr.com/services/rest/"
	DefaultAuthEndpoint = "https://www.flickr.com/services/auth/"

	defaultRequestTimeout = 30 * time.Second
	maxResponseBodyBytes  = 1 << 20 // 1 MiB
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	APIKey         string
	Secret         string
	Endpoint       string
	AuthEndpoint   string
	RequestTimeout time.Duration
	HTTPClient     HTTPDoer
	Logger         core.Logger
}

// Client signs and executes named remote methods against the service's
// REST endpoint. Construction performs no network call; the client is
// read-only after New and safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient HTTPDoer
	logger     core.Logger
}

func New(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Secret = strings.TrimSpace(cfg.Secret)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("rest: api key is required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("rest: api secret is required")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(cfg.AuthEndpoint) == "" {
		cfg.AuthEndpoint = DefaultAuthEndpoint
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	_, logger := glog.Resolve("flickr-rest", nil, cfg.Logger)
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     glog.Ensure(logger),
	}, nil
}

// Sign computes the api_sig for the given parameters: the MD5 hex digest of
// the shared secret followed by every key and value concatenated in key
// order.
func (c *Client) Sign(params url.Values) string {
	if c == nil {
		return ""
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	builder.WriteString(c.cfg.Secret)
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString(params.Get(key))
	}
	sum := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}

// AuthURL builds the signed authorization URL for the given permission
// level. The frob is optional and only present in desktop-style flows.
func (c *Client) AuthURL(perms string, frob string) string {
	if c == nil {
		return ""
	}
	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("perms", strings.TrimSpace(perms))
	if frob = strings.TrimSpace(frob); frob != "" {
		params.Set("frob", frob)
	}
	params.Set("api_sig", c.Sign(params))

	endpoint := c.cfg.AuthEndpoint
	if strings.Contains(endpoint, "?") {
		return endpoint + "&" + params.Encode()
	}
	return endpoint + "?" + params.Encode()
}

// Execute signs and posts the named method with the given parameters,
// decodes the XML response, and returns the rsp node as a nested mapping.
// A single attempt is made; failures surface to the caller untouched.
func (c *Client) Execute(ctx context.Context, method string, params url.Values) (map[string]any, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("rest: client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("rest: method is required")
	}

	form := url.Values{}
	for key, items := range params {
		if strings.TrimSpace(key) == "" {
			continue
		}
		for _, item := range items {
			form.Add(key, strings.TrimSpace(item))
		}
	}
	form.Set("method", method)
	form.Set("api_key", c.cfg.APIKey)
	form.Set("api_sig", c.Sign(form))

	requestCtx := ctx
	cancel := func() {}
	if c.cfg.RequestTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
	}
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		requestCtx,
		http.MethodPost,
		c.cfg.Endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "text/xml")

	requestID := uuid.NewString()
	startedAt := time.Now()
	response, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithContext(ctx).Error("flickr call failed",
			"method", method,
			"request_id", requestID,
			"error", err.Error(),
		)
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "rest: flickr call failed").
			WithTextCode(core.CredentialErrorRemoteFailed).
			WithMetadata(map[string]any{"method": method, "request_id": requestID})
	}
	defer response.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes+1))
	if readErr != nil {
		return nil, goerrors.Wrap(readErr, goerrors.CategoryExternal, "rest: read flickr response").
			WithTextCode(core.CredentialErrorRemoteFailed).
			WithMetadata(map[string]any{"method": method, "request_id": requestID})
	}
	if int64(len(body)) > maxResponseBodyBytes {
		return nil, core.NewCredentialError(
			fmt.Sprintf("rest: flickr response exceeds %d bytes", maxResponseBodyBytes),
			goerrors.CategoryExternal,
			core.CredentialErrorResponseInvalid,
		)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, core.NewCredentialError(
			fmt.Sprintf("rest: flickr endpoint returned status %d", response.StatusCode),
			goerrors.CategoryExternal,
			core.CredentialErrorRemoteFailed,
		)
	}

	rsp, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithContext(ctx).Info("flickr call completed",
		"method", method,
		"request_id", requestID,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	return rsp, nil
}

func decodeResponse(body []byte) (map[string]any, error) {
	decoded, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, core.NewCredentialError(
			"rest: decode flickr response: "+err.Error(),
			goerrors.CategoryExternal,
			core.CredentialErrorResponseInvalid,
		)
	}
	rsp, ok := childNode(map[string]any(decoded), "rsp")
	if !ok {
		return nil, core.NewCredentialError(
			"rest: rsp node is missing from flickr response",
			goerrors.CategoryExternal,
			core.CredentialErrorResponseInvalid,
		)
	}
	if stat := nodeAttr(rsp, "stat"); stat != "" && !strings.EqualFold(stat, "ok") {
		code, message := errNode(rsp)
		return nil, core.NewCredentialError(
			fmt.Sprintf("rest: flickr api error %s: %s", code, message),
			goerrors.CategoryExternal,
			core.CredentialErrorRemoteFailed,
		)
	}
	return rsp, nil
}

func childNode(node map[string]any, name string) (map[string]any, bool) {
	value, ok := node[name]
	if !ok {
		return nil, false
	}
	child, ok := value.(map[string]any)
	return child, ok
}

// nodeAttr reads an attribute leniently, accepting both the hyphen-prefixed
// form XML decoders emit and the bare form already-normalized maps carry.
func nodeAttr(node map[string]any, name string) string {
	for _, key := range []string{"-" + name, name} {
		if value, ok := node[key]; ok {
			return strings.TrimSpace(fmt.Sprint(value))
		}
	}
	return ""
}

func errNode(rsp map[string]any) (string, string) {
	node, ok := childNode(rsp, "err")
	if !ok {
		return "unknown", "unknown error"
	}
	code := nodeAttr(node, "code")
	if code == "" {
		code = "unknown"
	}
	message := nodeAttr(node, "msg")
	if message == "" {
		message = "unknown error"
	}
	return code, message
}
