// Package archive provides read access to mail archive files and adapts
// their messages into extraction jobs.
//
// The pipeline never inspects a concrete archive type: it sees the Archive
// interface ({iterate, message-by-id, count, close}) and the Source adapter.
// Open dispatches on the file extension, so adding a format means adding an
// implementation and one dispatch entry.
package archive
