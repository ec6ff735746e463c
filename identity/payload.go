// Package identity normalizes the remote service's nested auth response
// into the flat identity payload handed to host user resolvers.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-flickr-auth/core"
)

const (
	authKey = "auth"
	userKey = "user"
	textKey = "#text"
)

// AuthNode extracts the auth node from a decoded response payload.
func AuthNode(payload map[string]any) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, invalidResponse("response payload is empty")
	}
	value, ok := payload[authKey]
	if !ok {
		return nil, invalidResponse("auth node is missing from response")
	}
	node, ok := toNode(value)
	if !ok {
		return nil, invalidResponse("auth node has unexpected shape")
	}
	return node, nil
}

// FlattenAuth hoists every field of the auth node's nested user sub-node up
// to the auth level and drops the emptied user node, producing the flat
// identity payload. Attribute markers left by lenient XML decoding are
// normalized away.
func FlattenAuth(node map[string]any) (core.IdentityPayload, error) {
	if len(node) == 0 {
		return nil, invalidResponse("auth node is empty")
	}
	payload := core.IdentityPayload{}
	var user map[string]any
	for key, value := range node {
		name := normalizeKey(key)
		if name == "" {
			continue
		}
		if name == userKey {
			nested, ok := toNode(value)
			if !ok {
				return nil, invalidResponse("user node has unexpected shape")
			}
			user = nested
			continue
		}
		payload[name] = readLeaf(value)
	}
	for key, value := range user {
		name := normalizeKey(key)
		if name == "" {
			continue
		}
		payload[name] = readLeaf(value)
	}
	return payload, nil
}

func invalidResponse(message string) error {
	return core.NewCredentialError(
		"identity: "+message,
		goerrors.CategoryExternal,
		core.CredentialErrorResponseInvalid,
	)
}

func toNode(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case nil:
		return map[string]any{}, true
	default:
		return nil, false
	}
}

// normalizeKey strips the hyphen prefix lenient XML decoders put on
// attribute keys and drops bare element-text markers.
func normalizeKey(key string) string {
	name := strings.TrimSpace(key)
	name = strings.TrimPrefix(name, "-")
	if name == "" || name == textKey {
		return ""
	}
	return name
}

func readLeaf(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		// element with attributes keeps its text under #text
		if text, ok := typed[textKey]; ok {
			return readLeaf(text)
		}
		return ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}
