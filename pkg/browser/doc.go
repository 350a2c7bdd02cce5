// Package browser is the assistant's view of the browser-automation driver.
//
// The resolution engine only ever talks to the Page, Frame and Element
// interfaces declared here. The Playwright-backed implementation lives in
// playwright.go and is created through SessionManager, which owns the single
// browser session for the lifetime of the process.
//
// # Session Lifecycle
//
//  1. Initialize: install (optionally) and start the Playwright driver
//  2. StartSession: launch Chromium, create a context and one page
//  3. Use: the dispatcher queries and acts on Session.Page()
//  4. Shutdown: close the page, context, browser and stop the driver
//
// # Snapshots
//
// Prompts sent to the completion service embed a Snapshot of the page: the
// markup with scripts, styles and other noise removed, keeping the attributes
// useful for targeting (id, class, role, aria-label, name, type, placeholder,
// data-*), truncated to a fixed number of characters.
//
// # Debug Dumps
//
// When every resolution tier fails the dispatcher calls SaveDebugInfo, which
// writes debug_<context>_<hex8>.png and .html next to each other.
package browser
