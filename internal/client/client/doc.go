// Package client contains the Tidepool API operations of the client.
//
// # Overview
//
// The package provides:
//  1. An asynchronous API contract (see the Client interface): SignIn,
//     ViewableUserIDs, Profile and Notes. Each call returns a transport
//     Handle immediately and later invokes its completion callback exactly
//     once, unless the handle is canceled first.
//  2. A concrete HTTP implementation (see APIClient) wiring the request
//     pipeline, the session manager, the JSON codecs and the local store.
//
// Every operation follows the same path: build the URL and headers, submit,
// decode the body, upsert the decoded entities in one store transaction and
// only then run the callback. Network and status failures skip decoding and
// persistence.
//
// # Error Handling
//
// Callbacks receive errors from package common (TransportError, StatusError,
// DecodeError, ErrNoSessionToken, ErrNoCurrentUser, ErrMalformedURL), wrapped
// with fmt.Errorf where context helps. Match them with errors.Is / errors.As.
//
// See Also
//
//   - Interface: Client
//   - HTTP impl: APIClient
//   - Errors:    ErrClosed, ErrSuperseded
package client
