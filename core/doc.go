// Package core contains the credential contracts, settings resolution, and
// realm registry shared by every credential implementation. Provider-specific
// adapters must depend on this package; core must not depend on any provider.
package core
