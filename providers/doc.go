// Package providers contains built-in credential implementations.
package providers
