package sqlite

// Schema for the entities database. Four tables: one file report per archive
// file scanned, then messages, attachments and entities keyed back to it.
const schema = `
CREATE TABLE IF NOT EXISTS file_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	md5 TEXT NOT NULL DEFAULT '',
	sha256 TEXT NOT NULL DEFAULT '',
	msg_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	identifier INTEGER NOT NULL,
	processing_start_time TIMESTAMP NOT NULL,
	processing_end_time TIMESTAMP NOT NULL,
	file_report_id INTEGER REFERENCES file_reports(id)
);

CREATE TABLE IF NOT EXISTS attachments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	message_id INTEGER NOT NULL REFERENCES messages(id),
	file_report_id INTEGER REFERENCES file_reports(id)
);

CREATE TABLE IF NOT EXISTS entities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	label TEXT NOT NULL,
	filepath TEXT NOT NULL DEFAULT '',
	message_id INTEGER NOT NULL REFERENCES messages(id),
	file_report_id INTEGER REFERENCES file_reports(id)
);

CREATE INDEX IF NOT EXISTS idx_messages_file_report ON messages(file_report_id);
CREATE INDEX IF NOT EXISTS idx_entities_label ON entities(label);
CREATE INDEX IF NOT EXISTS idx_entities_message ON entities(message_id);
`
