package core

// Validate checks that a FileReport is well formed before staging.
func (fr *FileReport) Validate() error {
	if fr.Path == "" {
		return ErrEmptyPath
	}
	return nil
}

// Validate checks that an Attachment carries its owning message link.
// The file report link is optional; a nil link records an unresolved file.
func (a *Attachment) Validate() error {
	if a.Message == nil {
		return ErrMessageRequired
	}
	return nil
}

// Validate checks that an Entity is well formed before buffering.
func (e *Entity) Validate() error {
	if e.Text == "" {
		return ErrEmptyEntityText
	}
	if e.Label == "" {
		return ErrEmptyEntityLabel
	}
	if e.Message == nil {
		return ErrMessageRequired
	}
	return nil
}
