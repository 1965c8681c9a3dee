// Package sink provides example consumers that persist received cursor
// frames: a directory sink that writes one image file per visible snapshot
// and an S3 sink that uploads them.
//
// Sinks are consumers of the client's snapshot notifications, not part of
// the protocol core; dropping a frame on sink failure never affects the
// stream.
package sink
