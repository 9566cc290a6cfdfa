// Package authapi is the client side of the MedInvest Backend Auth API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login, Me,
//     Logout and Ping.
//  2. A REST implementation (see HTTPClient) speaking JSON over net/http,
//     which maps HTTP statuses and transport failures to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized. Any other non-2xx answer is
// returned as *APIError carrying the backend's message, which callers treat as
// an opaque display string.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package authapi
