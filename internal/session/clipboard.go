package session

import (
	"errors"

	"github.com/atotto/clipboard"
)

// Clipboard is the write-only system clipboard port used by CopyResult.
type Clipboard interface {
	WriteAll(text string) error
}

// ErrClipboardUnavailable is reported when the platform has no clipboard
// utility (for example a headless Linux box without xclip or xsel).
var ErrClipboardUnavailable = errors.New("system clipboard unavailable")

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}
