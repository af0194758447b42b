// Package client talks to the gophtasks REST server.
//
// The Client interface is the contract the services depend on; HTTPClient is
// the net/http implementation. A bearer token, once set, is attached to every
// authenticated call.
//
// # Error Handling
//
// Failures are mapped to sentinel errors callers match with errors.Is:
// ErrUnauthorized (401, 403 or no token), ErrUnavailable (transport failures
// and timeouts), ErrServer (5xx) and common.ErrValidation (400) wrapped with
// the server's message.
package client
