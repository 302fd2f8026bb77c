// Package kv defines the key-value persistence contract the ledger snapshots
// are written through. A value is either present as previously written text
// or absent; corrupt backends are not modeled.
package kv

import "context"

// Store is the port for outbound snapshot persistence adapters.
type Store interface {
	// Get returns the value for key, reporting absence via ok=false.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, overwriting any prior value as one unit.
	Set(ctx context.Context, key, value string) error
}
