// Package report builds per-file reports for archive files before an
// extraction run. Each report carries the file's size, MD5 and SHA256
// digests and message count, and becomes the anchor that messages,
// attachments and entities link back to.
package report
