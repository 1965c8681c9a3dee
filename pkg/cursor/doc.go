// Package cursor maintains the authoritative "current cursor" snapshot.
//
// The Projector consumes decoded protocol messages and replaces the snapshot
// wholesale on every update or hide; no history is kept and no merging
// happens, matching the protocol's push-current-state semantics. Readers get
// immutable snapshots through an atomic pointer and never observe a
// partially updated value.
//
// Cursor bitmaps are validated, not rendered: image bytes must parse as a
// supported format (WebP, PNG, or GIF) whose header dimensions equal the
// declared width and height. Rendering is the consumer's concern.
package cursor
