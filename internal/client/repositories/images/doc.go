// Package images stores captured photos and hands back opaque references.
//
// The entry model never interprets image bytes: a capture session validates
// them with Format, passes them to a Store, and keeps only the returned ref.
//
// Key Types
//
//   - type Store      — contract used by the capture session and the CLI
//   - type FileStore  — writes <dir>/<uuid>.<ext>, ref is the absolute path
//   - type S3Store    — puts objects into an S3-compatible bucket, ref is s3://bucket/key
package images
