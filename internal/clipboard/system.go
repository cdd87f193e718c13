// Package clipboard writes to the system clipboard.
package clipboard

import (
	"fmt"

	sysclip "github.com/atotto/clipboard"

	"github.com/alexanderramin/jiratrack/internal/service"
)

// System is the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type System struct{}

func (System) WriteText(text string) error {
	if sysclip.Unsupported {
		return service.ErrClipboardUnavailable
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", service.ErrClipboardUnavailable, err)
	}
	return nil
}

var _ service.Clipboard = System{}
