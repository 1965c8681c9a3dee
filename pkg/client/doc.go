// Package client is the public entry point for the cursor stream.
//
// A Client owns one long-lived WebSocket connection to a cursor stream
// server. A dedicated receive loop decodes each inbound frame, projects it
// onto the current cursor snapshot, and tracks liveness through a per-frame
// read deadline; when the transport fails or the server goes quiet the loop
// reconnects with capped exponential backoff and keeps retrying until Stop.
//
// Subscribers register callbacks through Config.Handlers. Callbacks run on
// the receive loop goroutine in strict arrival order — a hide notification
// is never coalesced away behind a later message — so they must return
// quickly and must not block.
//
// Per-message failures (malformed frames, unusable images) are reported and
// the stream continues; per-connection failures trigger reconnection; only
// an explicit Stop terminates the client.
package client
