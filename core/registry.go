package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RealmRegistry maps host realm names to the credential configured for
// each. Credentials are registered once at startup and read concurrently.
type RealmRegistry struct {
	mu     sync.RWMutex
	realms map[string]Credential
}

func NewRealmRegistry() *RealmRegistry {
	return &RealmRegistry{realms: make(map[string]Credential)}
}

func (r *RealmRegistry) Register(realm string, credential Credential) error {
	if credential == nil {
		return fmt.Errorf("core: credential is nil")
	}
	name := strings.TrimSpace(realm)
	if name == "" {
		return fmt.Errorf("core: realm name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.realms[name]; exists {
		return fmt.Errorf("core: realm already registered: %s", name)
	}
	r.realms[name] = credential
	return nil
}

func (r *RealmRegistry) Get(realm string) (Credential, bool) {
	name := strings.TrimSpace(realm)
	if name == "" {
		return nil, false
	}
	r.mu.RLock()
	credential, ok := r.realms[name]
	r.mu.RUnlock()
	return credential, ok
}

func (r *RealmRegistry) Realms() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.realms))
	for name := range r.realms {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *RealmRegistry) List() []Credential {
	names := r.Realms()
	credentials := make([]Credential, 0, len(names))
	r.mu.RLock()
	for _, name := range names {
		credentials = append(credentials, r.realms[name])
	}
	r.mu.RUnlock()
	return credentials
}
