// Package services contains the blocking application services used by the
// CLI. They wrap the callback-based API client: each call waits for its
// completion callback or for ctx to end, whichever comes first. When ctx
// ends first the request handle is canceled and ctx.Err() is returned.
package services
