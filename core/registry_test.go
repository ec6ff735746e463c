package core

import (
	"context"
	"testing"
)

type stubCredential struct {
	id string
}

func (s stubCredential) ID() string { return s.id }

func (s stubCredential) AuthorizationURL() (string, error) { return "https://example.com/auth", nil }

func (s stubCredential) Authenticate(context.Context, AuthenticateRequest, UserResolver) (any, bool, error) {
	return nil, false, nil
}

func TestRealmRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRealmRegistry()
	if err := registry.Register("members", stubCredential{id: "flickr"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	credential, ok := registry.Get("members")
	if !ok {
		t.Fatalf("expected credential for realm")
	}
	if credential.ID() != "flickr" {
		t.Fatalf("expected flickr credential, got %q", credential.ID())
	}
	if _, ok := registry.Get("unknown"); ok {
		t.Fatalf("expected no credential for unknown realm")
	}
}

func TestRealmRegistry_RejectsDuplicatesAndBlankInput(t *testing.T) {
	registry := NewRealmRegistry()
	if err := registry.Register("members", stubCredential{id: "flickr"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("members", stubCredential{id: "flickr"}); err == nil {
		t.Fatalf("expected duplicate realm error")
	}
	if err := registry.Register("", stubCredential{id: "flickr"}); err == nil {
		t.Fatalf("expected blank realm error")
	}
	if err := registry.Register("admin", nil); err == nil {
		t.Fatalf("expected nil credential error")
	}
}

func TestRealmRegistry_RealmsSorted(t *testing.T) {
	registry := NewRealmRegistry()
	for _, realm := range []string{"zeta", "alpha", "members"} {
		if err := registry.Register(realm, stubCredential{id: realm}); err != nil {
			t.Fatalf("register %q: %v", realm, err)
		}
	}
	realms := registry.Realms()
	expected := []string{"alpha", "members", "zeta"}
	if len(realms) != len(expected) {
		t.Fatalf("expected %d realms, got %d", len(expected), len(realms))
	}
	for i, realm := range expected {
		if realms[i] != realm {
			t.Fatalf("expected realm %q at %d, got %q", realm, i, realms[i])
		}
	}
	credentials := registry.List()
	if len(credentials) != len(expected) || credentials[0].ID() != "alpha" {
		t.Fatalf("expected list sorted by realm, got %d entries", len(credentials))
	}
}
