package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/registry"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

// fakeGame ends its episode after doneAt steps and records the action codes it saw.
type fakeGame struct {
	id, title string
	doneAt    int
	steps     int
	resets    int
	codes     []int
}

func (f *fakeGame) ID() string    { return f.id }
func (f *fakeGame) Title() string { return f.title }

func (f *fakeGame) Reset(core.RuntimeConfig) {
	f.resets++
	f.steps = 0
}

func (f *fakeGame) Step(in core.InputFrame) core.StepResult {
	if f.steps < f.doneAt {
		f.steps++
		f.codes = append(f.codes, in.ActionCode())
	}
	st := f.State()
	return core.StepResult{State: st, Done: st.GameOver, LevelComplete: st.GameOver}
}

func (f *fakeGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "fake level")
}

func (f *fakeGame) State() core.GameState {
	over := f.steps >= f.doneAt
	return core.GameState{GameOver: over, Won: over, Score: 10}
}

func (f *fakeGame) Describe() coinrun.EpisodeInfo {
	info := coinrun.EpisodeInfo{Difficulty: 1, Hazard: "saw", Seed: 7, Ticks: f.steps, Reward: 10}
	if f.steps >= f.doneAt {
		info.Outcome = coinrun.OutcomeGoal
	}
	return info
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, ok := send(t, m, TickMsg(time.Time{})).(Model)
	if !ok {
		t.Fatal("update did not return a Model")
	}
	return next
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, ok := send(t, m, msg).(Model)
	if !ok {
		t.Fatal("update did not return a Model")
	}
	return next
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "episodes.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.MustRegister("alpha", func() registry.Game { return &fakeGame{id: "alpha", title: "Alpha", doneAt: 3} })
	reg.MustRegister("beta", func() registry.Game { return &fakeGame{id: "beta", title: "Beta", doneAt: 3} })
	return reg
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runes("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runes("d"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runes("w"), core.ActionJump, false},
		{runes(" "), core.ActionJump, false},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{runes("s"), core.ActionDuck, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDuck, false},
		{runes("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{runes("r"), core.ActionRestart, false},
		{runes("b"), core.ActionBack, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{runes("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runes("x"), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := map[string]struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		"up":       {tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		"k":        {runes("k"), MenuActionUp},
		"down":     {tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		"enter":    {tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		"esc":      {tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		"tab":      {tea.KeyMsg{Type: tea.KeyTab}, MenuActionEpisodes},
		"quit":     {runes("q"), MenuActionQuit},
		"unmapped": {runes("z"), MenuActionNone},
	}
	for name, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("%s: got %v, want %v", name, got, tt.want)
		}
	}
}

func TestHeldKeys(t *testing.T) {
	var h heldKeys
	h.press(core.ActionRight)

	for i := range holdTicks {
		frame := core.NewInputFrame()
		h.apply(&frame)
		if !frame.Has(core.ActionRight) {
			t.Fatalf("tick %d: right not held", i)
		}
	}
	frame := core.NewInputFrame()
	h.apply(&frame)
	if frame.Has(core.ActionRight) {
		t.Error("right still held after hold window")
	}

	h.press(core.ActionRight)
	h.press(core.ActionLeft)
	frame = core.NewInputFrame()
	h.apply(&frame)
	if frame.Has(core.ActionRight) || !frame.Has(core.ActionLeft) {
		t.Errorf("left should cancel right, got %v", frame.Actions)
	}

	h.press(core.ActionDuck)
	h.press(core.ActionJump)
	frame = core.NewInputFrame()
	h.apply(&frame)
	if frame.Has(core.ActionDuck) {
		t.Error("jump should cancel a held duck")
	}

	h.release()
	if h != (heldKeys{}) {
		t.Errorf("release left %+v", h)
	}
}

func TestModelHoldsMovement(t *testing.T) {
	g := &fakeGame{id: "fake", doneAt: 100}
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 15, Seed: 1})
	m.Init()

	m = press(t, m, runes("d"))
	for range holdTicks + 2 {
		m = tick(t, m)
	}
	right := core.EncodeAction(1, 0)
	none := core.EncodeAction(0, 0)
	want := []int{right, right, right, right, none, none}
	if len(g.codes) != len(want) {
		t.Fatalf("codes = %v", g.codes)
	}
	for i := range want {
		if g.codes[i] != want[i] {
			t.Errorf("tick %d: code %d, want %d", i, g.codes[i], want[i])
		}
	}

	// Jump is a single-tick press combined with the held direction.
	m = press(t, m, runes("a"))
	m = press(t, m, runes(" "))
	m = tick(t, m)
	tick(t, m)
	n := len(g.codes)
	if g.codes[n-2] != core.EncodeAction(-1, 1) || g.codes[n-1] != core.EncodeAction(-1, 0) {
		t.Errorf("codes after jump = %v", g.codes[n-2:])
	}
}

func TestModelSavesEpisodeOnce(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{id: "fake", doneAt: 3}
	m := NewModel(g, store, log.New(io.Discard), core.RuntimeConfig{ScreenW: 40, ScreenH: 10, Seed: 1})
	m.Init()

	for range 6 {
		m = tick(t, m)
	}

	episodes, err := store.RecentEpisodes("fake", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(episodes) != 1 {
		t.Fatalf("saved %d episodes, want 1", len(episodes))
	}
	e := episodes[0]
	if e.Outcome != "goal" || !e.LevelComplete || e.Ticks != 3 || e.Seed != 7 || e.Source != storage.SourcePlay {
		t.Errorf("episode = %+v", e)
	}

	// Restart only works once the episode is over, and starts a fresh one.
	m = press(t, m, runes("r"))
	m = tick(t, m)
	if g.resets != 2 {
		t.Fatalf("resets = %d, want 2", g.resets)
	}
	for range 4 {
		m = tick(t, m)
	}
	episodes, err = store.RecentEpisodes("fake", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(episodes) != 2 {
		t.Errorf("saved %d episodes after restart, want 2", len(episodes))
	}
}

func TestModelIgnoresRestartWhileRunning(t *testing.T) {
	g := &fakeGame{id: "fake", doneAt: 50}
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, Seed: 1})
	m.Init()
	m = tick(t, m)
	m = press(t, m, runes("r"))
	tick(t, m)
	if g.resets != 1 {
		t.Errorf("resets = %d, want 1", g.resets)
	}
}

func TestModelBackAndQuit(t *testing.T) {
	g := &fakeGame{id: "fake", doneAt: 1}
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, Seed: 1})
	m.Init()
	m = tick(t, m)

	if press(t, m, runes("b")).BackToMenu() {
		t.Error("standalone model should not go back to a menu")
	}

	m.fromMenu = true
	if !press(t, m, runes("b")).BackToMenu() {
		t.Error("back after game over should return to menu")
	}

	next, cmd := m.Update(runes("q"))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelView(t *testing.T) {
	g := &fakeGame{id: "fake", doneAt: 5}
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 20, ScreenH: 3, Seed: 1})
	m.Init()
	if !strings.Contains(m.View(), "fake level") {
		t.Errorf("view = %q", m.View())
	}

	// Resizing keeps the running episode.
	m = tick(t, m)
	next := send(t, m, tea.WindowSizeMsg{Width: 30, Height: 5}).(Model)
	if g.resets != 1 || next.screen.Width() != 30 {
		t.Errorf("resize: resets=%d width=%d", g.resets, next.screen.Width())
	}
}

func TestModelScreenshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	g := &fakeGame{id: "fake", doneAt: 5}
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 20, ScreenH: 3, Seed: 1})
	m.Init()
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	files, err := filepath.Glob(filepath.Join(home, ".coinrun", "screenshots", "fake_*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("screenshots = %v, err = %v", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "fake level\n\n\n"; got != want {
		t.Errorf("screenshot = %q, want %q", got, want)
	}
	if g.steps != 0 {
		t.Error("screenshot stepped the game")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "coin")
	s.DrawTextColored(0, 1, "run", core.ColorBrown)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "coin") || !strings.Contains(lines[1], "run") {
		t.Errorf("render = %q", out)
	}
	for _, c := range []core.Color{core.ColorBrown, core.ColorTan, core.ColorIce} {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for terrain color %d", c)
		}
	}
}

func TestMenu(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveEpisode(storage.Episode{GameID: "beta", Outcome: "goal", Ticks: 50, LevelComplete: true}); err != nil {
		t.Fatal(err)
	}

	m := NewMenuModel(testRegistry(t), store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	if len(m.items) != 2 {
		t.Fatalf("items = %d", len(m.items))
	}
	if m.items[0].Stats != nil {
		t.Error("alpha has no episodes")
	}
	if !strings.Contains(m.View(), "1/1") {
		t.Errorf("menu should show beta's record:\n%s", m.View())
	}

	next := send(t, m, tea.KeyMsg{Type: tea.KeyDown}).(MenuModel)
	next = send(t, next, tea.KeyMsg{Type: tea.KeyDown}).(MenuModel)
	next = send(t, next, tea.KeyMsg{Type: tea.KeyEnter}).(MenuModel)
	if sel := next.Selected(); sel == nil || sel.GameID != "beta" {
		t.Errorf("selected = %+v", sel)
	}

	if !send(t, m, tea.KeyMsg{Type: tea.KeyTab}).(MenuModel).WantsEpisodes() {
		t.Error("tab should open the episode board")
	}
}

func TestEpisodesModel(t *testing.T) {
	store := openStore(t)
	for _, e := range []storage.Episode{
		{GameID: "alpha", Outcome: "death", Cause: "lava", Ticks: 30},
		{GameID: "alpha", Outcome: "goal", Ticks: 80, Reward: 10, LevelComplete: true},
	} {
		if _, err := store.SaveEpisode(e); err != nil {
			t.Fatal(err)
		}
	}

	m := NewEpisodesModel(testRegistry(t), store, 100, 30)
	if len(m.episodes) != 2 || m.episodes[0].Outcome != "goal" {
		t.Fatalf("best runs = %+v", m.episodes)
	}
	view := m.View()
	if !strings.Contains(view, "BEST RUNS - Alpha") || !strings.Contains(view, "2 episodes") {
		t.Errorf("view:\n%s", view)
	}

	m = send(t, m, runes("v")).(EpisodesModel)
	if !m.recent || m.episodes[0].Outcome != "goal" {
		t.Errorf("recent runs = %+v", m.episodes)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}).(EpisodesModel)
	if m.gameCursor != 1 || len(m.episodes) != 0 {
		t.Errorf("beta: cursor %d, %d episodes", m.gameCursor, len(m.episodes))
	}
	if !strings.Contains(m.View(), "No episodes recorded yet") {
		t.Error("empty board message missing")
	}

	if !send(t, m, runes("b")).(EpisodesModel).IsGoingBack() {
		t.Error("b should go back")
	}
}

func TestEpisodeRows(t *testing.T) {
	rows := episodeRows([]storage.Episode{
		{Outcome: "death", Cause: "saw", Ticks: 12, Reward: 0, Seed: 99},
	})
	want := []string{"1", "death", "12", "0", "99", "saw"}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("column %d = %q, want %q", i, rows[0][i], w)
		}
	}
	if got := statsLine(nil); got != "no episodes yet" {
		t.Errorf("statsLine(nil) = %q", got)
	}
	got := statsLine(&storage.GameStats{Episodes: 4, Completed: 1, BestTicks: 60, AvgTicks: 90})
	if got != "4 episodes  1 cleared (25%)  best 60 ticks  avg 90 ticks" {
		t.Errorf("statsLine = %q", got)
	}
}

func TestSessionFlow(t *testing.T) {
	s := NewSessionModel(testRegistry(t), nil, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 15})

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.screen != screenGame || s.game == nil || cmd == nil {
		t.Fatalf("enter should start alpha, screen=%v", s.screen)
	}
	if !s.game.fromMenu {
		t.Error("session games must allow going back")
	}

	// Play alpha to the end, then go back.
	for range 4 {
		s = send(t, s, TickMsg(time.Time{})).(SessionModel)
	}
	s = send(t, s, runes("b")).(SessionModel)
	if s.screen != screenMenu || s.game != nil {
		t.Fatalf("back should return to menu, screen=%v", s.screen)
	}

	s = send(t, s, tea.KeyMsg{Type: tea.KeyTab}).(SessionModel)
	if s.screen != screenEpisodes {
		t.Fatalf("tab should open episodes, screen=%v", s.screen)
	}
	s = send(t, s, tea.KeyMsg{Type: tea.KeyEsc}).(SessionModel)
	if s.screen != screenMenu {
		t.Errorf("esc should leave episodes, screen=%v", s.screen)
	}

	next, cmd = s.Update(runes("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should end the session")
	}
}
