// Package types defines the analysis document model, the DocumentClient and
// BlobStore interfaces, result and verification types, and the standard
// errors shared by every Easel component.
package types
