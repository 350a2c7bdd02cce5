package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SaveDebugInfo writes a screenshot and the page markup to
// dir/debug_<context>_<hex8>.png and .html and returns the shared path
// prefix. Both files are attempted even if one of them fails.
func SaveDebugInfo(page Page, dir, context string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create debug directory: %w", err)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := filepath.Join(dir, fmt.Sprintf("debug_%s_%s", context, suffix))

	var errs []error
	if shot, err := page.Screenshot(); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else if err := os.WriteFile(base+".png", shot, 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write screenshot: %w", err))
	}

	if content, err := page.Content(); err != nil {
		errs = append(errs, fmt.Errorf("content: %w", err))
	} else if err := os.WriteFile(base+".html", []byte(content), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("write html: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return base, fmt.Errorf("failed to save debug info: %w", err)
	}
	return base, nil
}
