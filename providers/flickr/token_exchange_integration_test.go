package flickr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goliatone/go-flickr-auth/core"
	"github.com/goliatone/go-flickr-auth/providers/flickr/rest"
)

// Exercises the full callback path against a stand-in Flickr endpoint:
// signed getToken call, XML decode, user-node flattening, host resolution.
func TestAuthenticate_EndToEndThroughRESTClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("method") != MethodGetToken {
			t.Errorf("expected method %q, got %q", MethodGetToken, r.PostForm.Get("method"))
		}
		if r.PostForm.Get("api_sig") == "" {
			t.Errorf("expected signed request")
		}
		if r.PostForm.Get(core.FrobParam) != "frob7" {
			t.Errorf("expected frob forwarded, got %q", r.PostForm.Get(core.FrobParam))
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<rsp stat="ok"><auth><token>T</token><perms>read</perms><user nsid="123" username="alice" fullname="Alice A"/></auth></rsp>`))
	}))
	defer server.Close()

	client, err := rest.New(rest.Config{
		APIKey:   "key123",
		Secret:   "sekrit",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatalf("new rest client: %v", err)
	}
	credential, err := New(Config{
		Defaults: map[string]any{
			core.SettingKey:    "key123",
			core.SettingSecret: "sekrit",
			core.SettingPerms:  core.PermsRead,
		},
		Client: client,
	})
	if err != nil {
		t.Fatalf("new credential: %v", err)
	}

	var seen core.IdentityPayload
	user, ok, err := credential.Authenticate(
		context.Background(),
		core.AuthenticateRequest{Params: url.Values{core.FrobParam: {"frob7"}}},
		func(_ context.Context, identity core.IdentityPayload, _ core.AuthenticateRequest) (any, bool, error) {
			seen = identity
			return identity["username"], true, nil
		},
	)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !ok || user != "alice" {
		t.Fatalf("expected resolved user alice, got %v", user)
	}

	expected := core.IdentityPayload{
		"token":    "T",
		"perms":    "read",
		"nsid":     "123",
		"username": "alice",
		"fullname": "Alice A",
	}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d payload fields, got %d: %v", len(expected), len(seen), seen)
	}
	for name, value := range expected {
		if seen[name] != value {
			t.Fatalf("expected payload %q=%q, got %q", name, value, seen[name])
		}
	}
}
