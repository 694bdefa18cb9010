// Package client contains the HTTP client for the school's api.php.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) used by
//     the screen services: Ping, Login, Fetch for reads and Do for writes.
//  2. A concrete HTTP implementation (see HTTPClient) that POSTs
//     form-encoded action requests and maps transport failures and HTTP
//     status codes to sentinel errors.
//  3. An envelope decoder (see Unwrap and Decode) that accepts the backend's
//     inconsistent success conventions and yields either a payload or an
//     *Error.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRejected, ErrBadResponse.
// ErrUnavailable is what the offline cache fallback keys on.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
