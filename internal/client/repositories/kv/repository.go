// Package kv persists named byte slots for the client. The local store keeps
// the whole client list under one slot; the auth session uses two more.
package kv

import "context"

// Well-known slot names.
const (
	KeyClients   = "clients"
	KeyAuthUser  = "authUser"
	KeyAuthToken = "authToken"
)

// Repository is a flat key-value map. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
