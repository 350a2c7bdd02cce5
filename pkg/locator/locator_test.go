package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/browser/browsertest"
	"github.com/entrhq/voicenav/pkg/heuristics"
	"github.com/entrhq/voicenav/pkg/logging"
)

func attrOf(t *testing.T, el browser.Element, name string) string {
	t.Helper()
	v, err := el.Attribute(name)
	require.NoError(t, err)
	return v
}

func TestLocateOrder(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		hint   string
		probes []string
		wantID string
	}{
		{
			name:   "label wins over probes",
			markup: `<input id="probe" name="email"><label for="lbl">Email</label><input id="lbl">`,
			hint:   "Email",
			probes: heuristics.Probes("email"),
			wantID: "lbl",
		},
		{
			name:   "test id",
			markup: `<input id="probe" name="email"><input id="tid" data-testid="Email">`,
			hint:   "Email",
			probes: heuristics.Probes("email"),
			wantID: "tid",
		},
		{
			name:   "role textbox by placeholder name",
			markup: `<input id="role" placeholder="Email address">`,
			hint:   "Email",
			probes: nil,
			wantID: "role",
		},
		{
			name:   "probe fallback",
			markup: `<input id="probe" type="email">`,
			hint:   "Login id",
			probes: heuristics.Probes("email"),
			wantID: "probe",
		},
		{
			name:   "hidden label target skipped",
			markup: `<label for="h">Email</label><input id="h" hidden><input id="probe" name="email">`,
			hint:   "Email",
			probes: heuristics.Probes("email"),
			wantID: "probe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := browsertest.New(t, tt.markup)
			l := New(page, logging.Nop())

			el, ok := l.Locate(context.Background(), tt.hint, tt.probes)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, attrOf(t, el, "id"))
		})
	}
}

func TestLocateExhausted(t *testing.T) {
	page := browsertest.New(t, `<p>nothing to type into</p><input type="hidden" name="email">`)
	l := New(page, logging.Nop())

	el, ok := l.Locate(context.Background(), "Email", heuristics.Probes("email"))
	assert.False(t, ok)
	assert.Nil(t, el)
}

func TestFirstSwallowsErrors(t *testing.T) {
	page := browsertest.New(t, `<button id="ok">Go</button>`)
	l := New(page, logging.Nop())

	failing := Strategy{
		Name: "boom",
		Find: func(context.Context, browser.Page) (browser.Element, error) {
			return nil, errors.New("driver crashed")
		},
	}
	nilElement := Strategy{
		Name: "nil",
		Find: func(context.Context, browser.Page) (browser.Element, error) { return nil, nil },
	}

	m, ok := l.First(context.Background(), failing, nilElement, BySelector("[[invalid"), BySelector("#ok"))
	require.True(t, ok)
	assert.Equal(t, "selector #ok", m.Strategy)
}

func TestFirstStopsAtFirstMatch(t *testing.T) {
	page := browsertest.New(t, `<button id="a">A</button><button id="b">B</button>`)
	l := New(page, logging.Nop())

	calls := 0
	counting := Strategy{
		Name: "counting",
		Find: func(_ context.Context, p browser.Page) (browser.Element, error) {
			calls++
			return p.Locate("#b"), nil
		},
	}

	m, ok := l.First(context.Background(), BySelector("#a"), counting)
	require.True(t, ok)
	assert.Equal(t, "a", attrOf(t, m.Element, "id"))
	assert.Zero(t, calls)
}

func TestByTextIsExact(t *testing.T) {
	page := browsertest.New(t, `<a id="jq" href="/jq">JQ Tutorial</a><a id="more" href="/more">JQ Tutorial and more</a>`)
	l := New(page, logging.Nop())

	m, ok := l.First(context.Background(), ByText("JQ Tutorial"))
	require.True(t, ok)
	assert.Equal(t, "text", m.Strategy)
	assert.Equal(t, "jq", attrOf(t, m.Element, "id"))

	_, ok = l.First(context.Background(), ByText("JQ"))
	assert.False(t, ok)
}

func TestFirstHonoursCancellation(t *testing.T) {
	page := browsertest.New(t, `<button id="a">A</button>`)
	l := New(page, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := l.First(ctx, BySelector("#a"))
	assert.False(t, ok)
}

func TestProbesAndFrames(t *testing.T) {
	page := browsertest.New(t, `<p>main</p>`)
	page.AddFrame(t, `<button id="pay">Pay</button>`)
	l := New(page, logging.Nop())

	_, ok := l.First(context.Background(), Probes([]string{"#pay", "button"}, time.Millisecond)...)
	assert.False(t, ok)

	var strategies []Strategy
	for i, f := range page.Frames() {
		strategies = append(strategies, InFrame(i, f, "#pay", time.Millisecond))
	}
	m, ok := l.First(context.Background(), strategies...)
	require.True(t, ok)
	assert.Equal(t, "frame[1] #pay", m.Strategy)
}

func TestBounded(t *testing.T) {
	assert.Equal(t, 2*time.Second, bounded(context.Background(), 2*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.LessOrEqual(t, bounded(ctx, 2*time.Second), 50*time.Millisecond)

	expired, cancel2 := context.WithTimeout(context.Background(), -time.Second)
	defer cancel2()
	assert.Equal(t, time.Millisecond, bounded(expired, time.Second))
}
