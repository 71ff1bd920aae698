package input

import (
	"fmt"
	"testing"
	"time"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input/key"
)

// testSink records sink calls as readable strings.
type testSink struct {
	events []string
}

func (s *testSink) BeginInsert(kind InsertKind, count int) {
	s.events = append(s.events, fmt.Sprintf("begin %s x%d", kind, count))
}

func (s *testSink) InsertKey(k key.Key) {
	s.events = append(s.events, "key "+k.String())
}

func (s *testSink) InsertText(text string) {
	s.events = append(s.events, "text "+text)
}

func (s *testSink) EndInsert() {
	s.events = append(s.events, "end")
}

func (s *testSink) reset() { s.events = nil }

// testUI records the overlay state.
type testUI struct {
	infoTitle   string
	infoContent string
	infoVisible bool

	menuItems    []string
	menuSelected int
	menuVisible  bool
	menuShows    int
}

func (u *testUI) ShowInfo(title, content string) {
	u.infoTitle, u.infoContent, u.infoVisible = title, content, true
}

func (u *testUI) HideInfo() { u.infoVisible = false }

func (u *testUI) ShowMenu(items []string, selected int) {
	u.menuItems, u.menuSelected, u.menuVisible = items, selected, true
	u.menuShows++
}

func (u *testUI) HideMenu() { u.menuVisible = false }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// testHandler wires a handler with recording collaborators and a
// command table the test can fill in after construction.
type testHandler struct {
	h     *Handler
	sink  *testSink
	ui    *testUI
	cmds  CommandMap
	clock *fakeClock
	errs  []error
}

func newTestHandler(settings config.Settings) *testHandler {
	th := &testHandler{
		sink:  &testSink{},
		ui:    &testUI{},
		cmds:  CommandMap{},
		clock: &fakeClock{t: time.Unix(1000, 0)},
	}
	th.h = NewHandler(Config{
		Settings: settings,
		Sink:     th.sink,
		UI:       th.ui,
		Commands: th.cmds,
		Name:     "test",
		OnError:  func(err error) { th.errs = append(th.errs, err) },
		Clock:    th.clock.now,
	})
	return th
}

func (th *testHandler) feed(t *testing.T, spec string) {
	t.Helper()
	keys, err := key.ParseSequence(spec)
	if err != nil {
		t.Fatalf("ParseSequence(%q) error = %v", spec, err)
	}
	for _, k := range keys {
		th.h.HandleKey(k, false)
	}
}

// bindInsert binds i/a to enter insert mode the way an editor would.
func (th *testHandler) bindInsert() {
	th.cmds[key.Rune('i')] = func(c *Context, p NormalParams) {
		c.Handler().Insert(InsertBefore, p.Count)
	}
	th.cmds[key.Rune('a')] = func(c *Context, p NormalParams) {
		c.Handler().Insert(InsertAfter, p.Count)
	}
}

// bindMacros binds q to toggle recording into reg and @ to replay reg.
func (th *testHandler) bindMacros(reg rune) {
	th.cmds[key.Rune('q')] = func(c *Context, p NormalParams) {
		h := c.Handler()
		if h.IsRecording() {
			h.DropLastRecordedKey()
			c.Error(h.StopRecording())
			return
		}
		c.Error(h.StartRecording(reg))
	}
	th.cmds[key.Rune('@')] = func(c *Context, p NormalParams) {
		c.Error(c.Handler().ReplayMacro(reg, p.Count))
	}
}

func TestNewHandlerStartsInNormalMode(t *testing.T) {
	th := newTestHandler(config.Default())

	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q, want normal", got)
	}

	// Resetting an already-flat stack changes nothing.
	th.h.ResetNormalMode()
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("after reset ModeName() = %q", got)
	}
}

func TestPartialSettingsGetDefaults(t *testing.T) {
	// Setting one field must not zero out the others, or dispatch would
	// trip the recursion bound on the very first key.
	th := newTestHandler(config.Settings{IdleTimeout: time.Second})
	ran := 0
	th.cmds[key.Rune('x')] = func(c *Context, p NormalParams) { ran++ }

	th.feed(t, "x")

	if ran != 1 {
		t.Fatalf("command ran %d times, want 1", ran)
	}
	if len(th.errs) != 0 {
		t.Fatalf("unexpected errors: %v", th.errs)
	}

	s := th.h.Context().Settings()
	def := config.Default()
	if s.IdleTimeout != time.Second {
		t.Errorf("IdleTimeout = %v, want %v", s.IdleTimeout, time.Second)
	}
	if s.MaxRecursion != def.MaxRecursion {
		t.Errorf("MaxRecursion = %d, want %d", s.MaxRecursion, def.MaxRecursion)
	}
	if s.HistoryMax != def.HistoryMax {
		t.Errorf("HistoryMax = %d, want %d", s.HistoryMax, def.HistoryMax)
	}

	// The same normalization applies on a settings reload.
	s.MaxRecursion = 0
	th.h.Context().SetSettings(s)
	if got := th.h.Context().Settings().MaxRecursion; got != def.MaxRecursion {
		t.Errorf("after SetSettings MaxRecursion = %d, want %d", got, def.MaxRecursion)
	}
}

func TestInsertRoundTrip(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "ihi<esc>")

	if got := th.h.ModeName(); got != "normal" {
		t.Fatalf("escape should return to normal, got %q", got)
	}
	want := []string{"begin insert-before x1", "key h", "key i", "end"}
	assertEvents(t, th.sink.events, want)
}

func TestCountPrefix(t *testing.T) {
	th := newTestHandler(config.Default())
	var got []NormalParams
	th.cmds[key.Rune('x')] = func(c *Context, p NormalParams) {
		got = append(got, p)
	}

	th.feed(t, "12x")
	th.feed(t, "x")
	th.feed(t, "102x")
	// An unbound key discards the pending count.
	th.feed(t, "3zx")

	want := []int{12, 0, 102, 0}
	if len(got) != len(want) {
		t.Fatalf("command ran %d times, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Count != w {
			t.Errorf("call %d: Count = %d, want %d", i, got[i].Count, w)
		}
	}
}

func TestPendingRegister(t *testing.T) {
	th := newTestHandler(config.Default())
	var got NormalParams
	th.cmds[key.Rune('p')] = func(c *Context, p NormalParams) { got = p }
	th.cmds[key.Rune('"')] = func(c *Context, p NormalParams) {
		c.Handler().OnNextKey("register", func(k key.Key, c *Context) {
			if k.IsRune() {
				c.Handler().SetPendingRegister(k.Rune)
			}
		}, nil)
	}

	th.feed(t, "\"bp")

	if got.Register != 'b' {
		t.Errorf("Register = %q, want 'b'", got.Register)
	}
}

func TestRecordingExcludesStopKey(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindMacros('m')

	th.feed(t, "qabcq")

	if th.h.IsRecording() {
		t.Fatal("recording should have stopped")
	}
	if got := th.h.Context().Registers().Main('m'); got != "abc" {
		t.Errorf("macro = %q, want %q", got, "abc")
	}
	if len(th.errs) != 0 {
		t.Errorf("unexpected errors: %v", th.errs)
	}
}

func TestRecordingDoesNotCaptureReplayedKeys(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindMacros('m')
	counted := 0
	th.cmds[key.Rune('x')] = func(c *Context, p NormalParams) { counted++ }

	// Record a macro into m, then record into n while replaying m: only
	// the replay trigger must be captured, not the keys it synthesizes.
	if err := th.h.Context().Registers().Set('m', []string{"xx"}); err != nil {
		t.Fatal(err)
	}
	th.cmds[key.Rune('Q')] = func(c *Context, p NormalParams) {
		h := c.Handler()
		if h.IsRecording() {
			h.DropLastRecordedKey()
			c.Error(h.StopRecording())
			return
		}
		c.Error(h.StartRecording('n'))
	}

	th.feed(t, "Q@Q")

	if counted != 2 {
		t.Errorf("replay ran the command %d times, want 2", counted)
	}
	if got := th.h.Context().Registers().Main('n'); got != "@" {
		t.Errorf("outer macro = %q, want %q", got, "@")
	}
}

func TestRecordingStateErrors(t *testing.T) {
	th := newTestHandler(config.Default())

	if err := th.h.StopRecording(); err != ErrNotRecording {
		t.Errorf("StopRecording() = %v, want ErrNotRecording", err)
	}
	if err := th.h.StartRecording('<'); err == nil {
		t.Error("StartRecording with invalid register should fail")
	}
	if err := th.h.StartRecording('a'); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if err := th.h.StartRecording('b'); err != ErrAlreadyRecording {
		t.Errorf("second StartRecording() = %v, want ErrAlreadyRecording", err)
	}
	if got := th.h.RecordingRegister(); got != 'a' {
		t.Errorf("RecordingRegister() = %q", got)
	}
	if err := th.h.StopRecording(); err != nil {
		t.Errorf("StopRecording() error = %v", err)
	}
}

func TestReplayMacroOfRecordingRegister(t *testing.T) {
	th := newTestHandler(config.Default())

	if err := th.h.StartRecording('m'); err != nil {
		t.Fatal(err)
	}
	if err := th.h.ReplayMacro('m', 1); err == nil {
		t.Error("replaying the register being recorded should fail")
	}
}

func TestReplayRecursionBounded(t *testing.T) {
	settings := config.Default()
	settings.MaxRecursion = 8
	th := newTestHandler(settings)
	th.bindMacros('m')

	// A macro that replays itself must hit the bound, not the stack.
	if err := th.h.Context().Registers().Set('m', []string{"@"}); err != nil {
		t.Fatal(err)
	}
	th.feed(t, "@")

	if len(th.errs) == 0 {
		t.Fatal("self-replaying macro should report recursion errors")
	}
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q after bounded replay", got)
	}
}

func TestRepeatLastInsert(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "ihi<esc>")
	th.sink.reset()

	th.h.RepeatLastInsert()

	want := []string{"begin insert-before x1", "key h", "key i", "end"}
	assertEvents(t, th.sink.events, want)
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("repeat should end in normal mode, got %q", got)
	}

	// The record survives the replay, so repeating again works.
	th.sink.reset()
	th.h.RepeatLastInsert()
	assertEvents(t, th.sink.events, want)
}

func TestRepeatLastInsertWithoutRecord(t *testing.T) {
	th := newTestHandler(config.Default())

	th.h.RepeatLastInsert()

	if len(th.sink.events) != 0 {
		t.Errorf("no record should mean no sink activity, got %v", th.sink.events)
	}
}

func TestRepeatLastInsertWhileInserting(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "ix<esc>")
	th.feed(t, "i")
	th.sink.reset()

	// Repeat during an active insertion is refused.
	th.h.RepeatLastInsert()

	if len(th.sink.events) != 0 {
		t.Errorf("unexpected sink activity: %v", th.sink.events)
	}
}

func TestPasteCapturedForRepeat(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "i")
	th.h.Paste("xy")
	th.feed(t, "<esc>")

	th.sink.reset()
	th.h.RepeatLastInsert()

	// Pasted content replays as individual keys.
	want := []string{"begin insert-before x1", "key x", "key y", "end"}
	assertEvents(t, th.sink.events, want)
}

func TestPasteOutsideInsert(t *testing.T) {
	th := newTestHandler(config.Default())

	th.h.Paste("hello")

	assertEvents(t, th.sink.events, []string{"text hello"})
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("paste must not change the mode, got %q", got)
	}
}

func TestOnNextKeyDeliversOnce(t *testing.T) {
	th := newTestHandler(config.Default())
	var got []key.Key
	th.h.OnNextKey("goto", func(k key.Key, c *Context) {
		got = append(got, k)
	}, nil)

	if name := th.h.ModeName(); name != "goto" {
		t.Fatalf("ModeName() = %q, want goto", name)
	}
	th.feed(t, "gq")

	if len(got) != 1 || got[0] != key.Rune('g') {
		t.Errorf("callback keys = %v, want [g]", got)
	}
	if name := th.h.ModeName(); name != "normal" {
		t.Errorf("one-shot mode should pop, got %q", name)
	}
}

func TestOnNextKeyIdleFires(t *testing.T) {
	th := newTestHandler(config.Default())
	idleFired := 0
	keyFired := 0
	th.h.OnNextKey("goto", func(k key.Key, c *Context) {
		keyFired++
	}, func(c *Context) {
		idleFired++
	})

	deadline, ok := th.h.NextDeadline()
	if !ok {
		t.Fatal("idle callback should schedule a deadline")
	}
	if want := th.clock.now().Add(config.Default().IdleTimeout); !deadline.Equal(want) {
		t.Errorf("NextDeadline() = %v, want %v", deadline, want)
	}

	th.clock.advance(time.Second)
	if fired := th.h.FireTimers(th.clock.now()); fired != 1 {
		t.Fatalf("FireTimers() = %d, want 1", fired)
	}
	if idleFired != 1 {
		t.Fatalf("idle fired %d times, want 1", idleFired)
	}
	if name := th.h.ModeName(); name != "goto" {
		t.Errorf("idle must not pop the mode, got %q", name)
	}

	// The key still gets its callback after the idle fired.
	th.feed(t, "g")
	if keyFired != 1 {
		t.Errorf("key callback fired %d times, want 1", keyFired)
	}
	if _, ok := th.h.NextDeadline(); ok {
		t.Error("no deadline should remain after the mode popped")
	}
}

func TestOnNextKeyCancelsIdleOnKey(t *testing.T) {
	th := newTestHandler(config.Default())
	idleFired := 0
	th.h.OnNextKey("goto", func(k key.Key, c *Context) {}, func(c *Context) {
		idleFired++
	})

	th.feed(t, "g")
	th.clock.advance(time.Second)
	if fired := th.h.FireTimers(th.clock.now()); fired != 0 {
		t.Errorf("FireTimers() = %d, want 0", fired)
	}
	if idleFired != 0 {
		t.Errorf("idle fired %d times after cancellation", idleFired)
	}
}

func TestResetNormalModeCancelsIdle(t *testing.T) {
	th := newTestHandler(config.Default())
	idleFired := 0
	th.h.OnNextKey("goto", func(k key.Key, c *Context) {}, func(c *Context) {
		idleFired++
	})

	th.h.ResetNormalMode()

	th.clock.advance(time.Second)
	if fired := th.h.FireTimers(th.clock.now()); fired != 0 || idleFired != 0 {
		t.Errorf("idle survived reset: fired=%d idleFired=%d", fired, idleFired)
	}
}

func TestResetNormalModeUnwindsDeepStack(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "i")
	th.h.Prompt(":", "", "", FacePrompt, PromptNone, 0, nil, nil)
	th.h.OnNextKey("goto", nil, nil)

	th.h.ResetNormalMode()

	if got := th.h.ModeName(); got != "normal" {
		t.Fatalf("ModeName() = %q, want normal", got)
	}
	// The insert session was closed on the way down.
	if last := th.sink.events[len(th.sink.events)-1]; last != "end" {
		t.Errorf("last sink event = %q, want end", last)
	}
}

func TestStalePopPanics(t *testing.T) {
	th := newTestHandler(config.Default())
	inner := th.h.pushInsert(InsertBefore, 1)
	th.h.Insert(InsertAfter, 1)

	defer func() {
		if recover() == nil {
			t.Error("popping a non-active mode should panic")
		}
	}()
	th.h.popMode(inner)
}

func TestBottomPopPanics(t *testing.T) {
	th := newTestHandler(config.Default())

	defer func() {
		if recover() == nil {
			t.Error("popping the bottom normal mode should panic")
		}
	}()
	th.h.popMode(th.h.current())
}

func TestScopedForceNormal(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "i")
	scope := th.h.ForceNormal(NormalParams{})
	if got := th.h.ModeName(); got != "normal" {
		t.Fatalf("ForceNormal: ModeName() = %q", got)
	}

	// Balanced push/pop inside the scope.
	th.h.Prompt(":", "", "", FacePrompt, PromptNone, 0, nil, nil)
	th.feed(t, "<ret>")

	scope.Release()
	if got := th.h.ModeName(); got != "insert" {
		t.Errorf("Release should restore insert, got %q", got)
	}

	// Release twice is harmless.
	scope.Release()
	th.feed(t, "<esc>")
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q, want normal", got)
	}
}

func TestScopedForceNormalAlreadyNormal(t *testing.T) {
	th := newTestHandler(config.Default())

	scope := th.h.ForceNormal(NormalParams{})
	scope.Release()

	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q, want normal", got)
	}
}

func TestScopedForceNormalBuried(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "i")
	scope := th.h.ForceNormal(NormalParams{})
	// Something inside the scope pushed a mode and left it there.
	th.h.Insert(InsertAfter, 1)

	scope.Release()

	if got := th.h.ModeName(); got != "insert" {
		t.Fatalf("ModeName() = %q, want insert", got)
	}
	// Unwinding the remaining inserts lands back in normal mode, which
	// means the buried forced normal really was removed.
	th.feed(t, "<esc><esc>")
	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q, want normal", got)
	}
}

func TestModeInfo(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "5")
	mi := th.h.ModeInfo()
	if mi.Params == nil || mi.Params.Count != 5 {
		t.Errorf("ModeInfo().Params = %+v, want Count 5", mi.Params)
	}
	if got := mi.ModeLine.String(); got != "normal 5" {
		t.Errorf("ModeLine = %q", got)
	}

	th.feed(t, "i")
	mi = th.h.ModeInfo()
	if mi.Params != nil {
		t.Errorf("insert mode should carry no normal params")
	}
	if got := mi.ModeLine.String(); got != "insert" {
		t.Errorf("ModeLine = %q", got)
	}
}

func TestCloseUnwindsAndCancels(t *testing.T) {
	th := newTestHandler(config.Default())
	th.bindInsert()

	th.feed(t, "i")
	th.h.OnNextKey("goto", nil, func(c *Context) {})
	th.h.Close()

	if got := th.h.ModeName(); got != "normal" {
		t.Errorf("ModeName() = %q after Close", got)
	}
	if _, ok := th.h.NextDeadline(); ok {
		t.Error("Close should cancel pending tasks")
	}
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}
