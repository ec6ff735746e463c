package core

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	opts "github.com/goliatone/go-options"
)

const (
	SettingKey    = "key"
	SettingSecret = "secret"
	SettingPerms  = "perms"
)

// Permission levels defined by the remote service.
const (
	PermsRead   = "read"
	PermsWrite  = "write"
	PermsDelete = "delete"
)

// Settings holds the three values every credential needs: the application
// key and shared secret registered with the remote service, and the
// requested permission level. Set once at construction, immutable after.
type Settings struct {
	Key    string `koanf:"key" mapstructure:"key"`
	Secret string `koanf:"secret" mapstructure:"secret"`
	Perms  string `koanf:"perms" mapstructure:"perms"`
}

// Validate reports the first missing setting, checked key, secret, perms.
func (s Settings) Validate() error {
	for _, setting := range []struct {
		name  string
		value string
	}{
		{SettingKey, s.Key},
		{SettingSecret, s.Secret},
		{SettingPerms, s.Perms},
	} {
		if strings.TrimSpace(setting.value) == "" {
			return missingSettingError(setting.name)
		}
	}
	return nil
}

func missingSettingError(name string) *goerrors.Error {
	return goerrors.New(
		fmt.Sprintf("core: required setting %q is missing", name),
		goerrors.CategoryValidation,
	).
		WithTextCode(CredentialErrorSettingMissing).
		WithMetadata(map[string]any{"setting": name})
}

// ResolveSettings merges plugin-level defaults with realm-level overrides,
// realm values winning on key collision, then builds and validates the
// result. Blank or nil values never override a populated default.
func ResolveSettings(defaults map[string]any, realm map[string]any) (Settings, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			settingsLayer(defaults),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("realm", 10),
			settingsLayer(realm),
			opts.WithSnapshotID[map[string]any]("realm"),
		),
	)
	if err != nil {
		return Settings{}, fmt.Errorf("core: settings stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Settings{}, fmt.Errorf("core: settings merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Settings](merged.Value,
		cfgx.WithDefaults(Settings{}),
		cfgx.WithValidator[Settings]((*Settings).Validate),
	)
	if err != nil {
		return Settings{}, err
	}
	return resolved, nil
}

func settingsLayer(values map[string]any) map[string]any {
	layer := map[string]any{}
	for _, name := range []string{SettingKey, SettingSecret, SettingPerms} {
		value, ok := values[name]
		if !ok || value == nil {
			continue
		}
		trimmed := strings.TrimSpace(fmt.Sprint(value))
		if trimmed == "" || trimmed == "<nil>" {
			continue
		}
		layer[name] = trimmed
	}
	return layer
}
