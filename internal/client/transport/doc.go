// Package transport is the asynchronous request pipeline of the client.
//
// A Pipeline resolves request paths against a named base endpoint, attaches
// the headers of its HeadersFunc (the session token) plus per-call headers,
// and executes requests on a bounded pool of workers. Each submission yields
// a Handle; exactly one of the success or error callbacks runs, once, on a
// worker goroutine, unless the handle is canceled first.
//
// There is no retry and no ordering guarantee between submissions.
package transport
