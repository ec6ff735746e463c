package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// FrobParam is the query parameter carrying the one-time token issued by
// the remote service during the redirect step.
const FrobParam = "frob"

// IdentityPayload is the flat identity mapping handed to the host resolver:
// the auth-level fields (token, perms) plus every field hoisted from the
// nested user node (nsid, username, fullname).
type IdentityPayload map[string]string

// AuthenticateRequest carries the incoming request's parameters and, when
// available, the underlying HTTP request for host callbacks that need it.
type AuthenticateRequest struct {
	Params      url.Values
	HTTPRequest *http.Request
}

// Frob returns the one-time token from the request parameters, or the empty
// string when no authentication attempt is in progress.
func (r AuthenticateRequest) Frob() string {
	if len(r.Params) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Params.Get(FrobParam))
}

// UserResolver maps a flattened identity payload to a host user object.
// (nil, false, nil) reports absence: no matching or creatable user, which
// is not an error.
type UserResolver func(ctx context.Context, identity IdentityPayload, req AuthenticateRequest) (any, bool, error)

// Credential is the contract a host authentication framework consumes. A
// credential is constructed once per realm, holds no per-request state, and
// is safe to share across concurrent requests.
type Credential interface {
	ID() string
	AuthorizationURL() (string, error)
	Authenticate(ctx context.Context, req AuthenticateRequest, resolve UserResolver) (any, bool, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
