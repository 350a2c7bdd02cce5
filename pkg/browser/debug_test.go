package browser_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/browser/browsertest"
)

func TestSaveDebugInfo(t *testing.T) {
	dir := t.TempDir()
	page := browsertest.New(t, `<button>Go</button>`)

	base, err := browser.SaveDebugInfo(page, dir, "click")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`debug_click_[0-9a-f]{8}$`), filepath.Base(base))

	html, err := os.ReadFile(base + ".html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<button>Go</button>")

	_, err = os.Stat(base + ".png")
	assert.NoError(t, err)
}

func TestSaveDebugInfoScreenshotFailure(t *testing.T) {
	dir := t.TempDir()
	page := browsertest.New(t, `<p>x</p>`)
	page.ScreenshotErr = errors.New("no display")

	base, err := browser.SaveDebugInfo(page, dir, "search")
	assert.Error(t, err)

	// The markup dump is still written.
	_, statErr := os.Stat(base + ".html")
	assert.NoError(t, statErr)
	_, statErr = os.Stat(base + ".png")
	assert.True(t, os.IsNotExist(statErr))
}

func TestVisible(t *testing.T) {
	page := browsertest.New(t, `<button id="a">A</button><button id="b" hidden>B</button>`)

	assert.True(t, browser.Visible(page.Locate("#a")))
	assert.False(t, browser.Visible(page.Locate("#b")))
	assert.False(t, browser.Visible(page.Locate("#missing")))
	assert.False(t, browser.Visible(nil))
}
