// Package flickrauth exposes the module's public surface: the credential
// contracts from core plus factories for the built-in credential
// implementations.
package flickrauth

import (
	"github.com/goliatone/go-flickr-auth/core"
	"github.com/goliatone/go-flickr-auth/providers/flickr"
)

type Settings = core.Settings

type Credential = core.Credential

type IdentityPayload = core.IdentityPayload

type AuthenticateRequest = core.AuthenticateRequest

type UserResolver = core.UserResolver

type RealmRegistry = core.RealmRegistry

func NewRealmRegistry() *RealmRegistry {
	return core.NewRealmRegistry()
}

func FlickrCredential(cfg flickr.Config) (core.Credential, error) {
	return flickr.New(cfg)
}

// RegisterFlickrRealm builds a flickr credential and binds it to the given
// realm in one step, the way host frameworks wire plugins at startup.
func RegisterFlickrRealm(registry *RealmRegistry, realm string, cfg flickr.Config) (core.Credential, error) {
	credential, err := flickr.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(realm, credential); err != nil {
		return nil, err
	}
	return credential, nil
}
