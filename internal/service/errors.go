package service

import "errors"

// ErrClipboardUnavailable indicates the system clipboard cannot be written.
// Copying is best effort, so callers report it without stopping the session.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")
