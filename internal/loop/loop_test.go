package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitcatcher/internal/catalog"
	"github.com/tomz197/fruitcatcher/internal/draw"
	"github.com/tomz197/fruitcatcher/internal/game"
	"github.com/tomz197/fruitcatcher/internal/input"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
)

type testClient struct {
	*Client
	out   *bytes.Buffer
	store *leaderboard.Store
}

func newTestClient(t *testing.T, defaultName string) *testClient {
	t.Helper()
	return newTestClientReading(t, defaultName, strings.NewReader(""))
}

// newTestClientReading builds a client whose input stream reads from r.
func newTestClientReading(t *testing.T, defaultName string, r io.Reader) *testClient {
	t.Helper()
	out := &bytes.Buffer{}
	store := leaderboard.NewStore(nil)
	c := NewClient(bufio.NewReader(r), out, Options{
		Board:        store,
		DefaultName:  defaultName,
		TermSizeFunc: func() (int, int, error) { return 120, 50, nil },
		Rand:         rand.New(rand.NewSource(1)),
		Logger:       log.New(io.Discard),
	})
	return &testClient{Client: c, out: out, store: store}
}

func (tc *testClient) keys(s string) {
	tc.dispatch(input.Parse([]byte(s)))
}

func TestPromptsStartSession(t *testing.T) {
	tc := newTestClient(t, "")
	tc.keys("Ann\r3\r")

	if tc.state.Phase != PhasePlaying {
		t.Fatalf("Expected playing phase, got %v", tc.state.Phase)
	}
	if tc.state.Name != "Ann" {
		t.Errorf("Expected name Ann, got %q", tc.state.Name)
	}
	if tc.state.Difficulty.Name != "Hard" {
		t.Errorf("Expected Hard, got %q", tc.state.Difficulty.Name)
	}
	if got := tc.state.Session.State(); got != game.StateRunning {
		t.Errorf("Expected running session, got %v", got)
	}
}

func TestPromptsAcceptTypeAhead(t *testing.T) {
	tc := newTestClient(t, "")
	// Name, difficulty and a first move arrive in one read.
	tc.keys("Bo\r\ra")

	if tc.state.Phase != PhasePlaying {
		t.Fatalf("Expected playing phase, got %v", tc.state.Phase)
	}
	if x := tc.state.Session.View().Basket.Box.X1; x != 130 {
		t.Errorf("Expected the queued move to reach the basket, got x=%v", x)
	}
}

func TestPromptDefaults(t *testing.T) {
	tests := []struct {
		name        string
		defaultName string
		wantName    string
	}{
		{"No default", "", "Guest"},
		{"SSH user", "alice", "alice"},
		{"Blank default", "   ", "Guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestClient(t, tt.defaultName)
			tc.keys("\r\r")
			if tc.state.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, tc.state.Name)
			}
			if tc.state.Difficulty.Name != "Medium" {
				t.Errorf("Expected Medium, got %q", tc.state.Difficulty.Name)
			}
		})
	}
}

func TestDifficultyChoice(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		text string
		want string
	}{
		{"1", "Easy"},
		{"2", "Medium"},
		{"hard", "Hard"},
		{" EASY ", "Easy"},
		{"9", "Medium"},
		{"0", "Medium"},
		{"impossible", "Medium"},
		{"", "Medium"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := difficultyChoice(cat, tt.text).Name; got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPlayingKeys(t *testing.T) {
	tc := newTestClient(t, "Ann")
	tc.keys("\r\r")

	basketX := func() float64 { return tc.state.Session.View().Basket.Box.X1 }
	if basketX() != 160 {
		t.Fatalf("Expected centered basket, got x=%v", basketX())
	}

	tc.keys("a")
	if basketX() != 130 {
		t.Errorf("Expected basket at 130 after left, got %v", basketX())
	}
	tc.keys("\x1b[C\x1b[Cl")
	if basketX() != 220 {
		t.Errorf("Expected basket at 220 after three rights, got %v", basketX())
	}

	tc.keys("p")
	if got := tc.state.Session.State(); got != game.StatePaused {
		t.Errorf("Expected paused, got %v", got)
	}
	tc.keys(" ")
	if got := tc.state.Session.State(); got != game.StateRunning {
		t.Errorf("Expected running after space, got %v", got)
	}
}

func TestQuitDuringPlayRecordsNothing(t *testing.T) {
	tc := newTestClient(t, "Ann")
	tc.keys("\r\r")
	tc.keys("q")

	if tc.state.Running {
		t.Error("Expected client to stop after quit")
	}
	if got := tc.state.Session.State(); got != game.StateQuit {
		t.Errorf("Expected quit session, got %v", got)
	}
	if snap := tc.store.Load(); len(snap.Scores) != 0 {
		t.Errorf("Expected nothing recorded, got %v", snap.Scores)
	}
}

func TestSplitArrowKeyMovesBasket(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	tc := newTestClientReading(t, "Ann", pr)
	tc.keys("\r\r")

	// The arrow key reaches the client in two writes, as it can over a
	// segmented SSH stream.
	if _, err := pw.Write([]byte("\x1b")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	tc.processInput()
	if _, err := pw.Write([]byte("[D")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && tc.state.Session.View().Basket.Box.X1 == 160 && tc.state.Running {
		tc.processInput()
		time.Sleep(time.Millisecond)
	}

	if !tc.state.Running {
		t.Fatal("Expected client still running after a split arrow key")
	}
	if got := tc.state.Session.State(); got != game.StateRunning {
		t.Errorf("Expected running session, got %v", got)
	}
	if x := tc.state.Session.View().Basket.Box.X1; x != 130 {
		t.Errorf("Expected basket moved left to 130, got %v", x)
	}
}

func TestInterruptLeavesFromAnyScreen(t *testing.T) {
	tc := newTestClient(t, "")
	tc.keys("Ann\x03")
	if tc.state.Running {
		t.Error("Expected Ctrl-C to stop the client")
	}
}

func TestGameOverAndReplay(t *testing.T) {
	tc := newTestClient(t, "Ann")
	tc.keys("\r1\r")

	// An idle basket loses every life well within ten minutes.
	tc.state.delta = 10 * time.Minute
	tc.update()

	if tc.state.Phase != PhaseGameOver {
		t.Fatalf("Expected game over phase, got %v", tc.state.Phase)
	}
	res := tc.state.Result
	if !res.Recorded || res.Name != "Ann" || res.Difficulty != "Easy" {
		t.Errorf("Expected recorded result for Ann on Easy, got %+v", res)
	}
	snap := tc.store.Load()
	if len(snap.Scores) != 1 || snap.Scores[0].Score != res.Score {
		t.Errorf("Expected leaderboard entry for the final score, got %v", snap.Scores)
	}
	tc.update()
	if len(tc.state.particles) != 0 {
		t.Errorf("Expected particles expired, got %d", len(tc.state.particles))
	}

	// Gameplay keys do nothing on the game over screen.
	tc.keys("ap")
	if tc.state.Phase != PhaseGameOver {
		t.Errorf("Expected to stay on game over screen, got %v", tc.state.Phase)
	}

	previous := tc.state.Session
	tc.keys("r")
	if tc.state.Phase != PhasePlaying || tc.state.Session == previous {
		t.Fatal("Expected replay to start a new session")
	}
	v := tc.state.Session.View()
	if v.Name != "Ann" || v.Difficulty != "Easy" || v.Score != 0 || v.Lives != 5 {
		t.Errorf("Expected fresh session for Ann on Easy, got %+v", v)
	}
	if v.HighScore != snap.HighScore {
		t.Errorf("Expected high score %d carried into replay, got %d", snap.HighScore, v.HighScore)
	}
}

func TestGameOverQuit(t *testing.T) {
	tc := newTestClient(t, "Ann")
	tc.keys("\r\r")
	tc.state.delta = 10 * time.Minute
	tc.update()

	tc.keys("q")
	if tc.state.Running {
		t.Error("Expected q to leave from the game over screen")
	}
}

func TestShutdownCountdown(t *testing.T) {
	tc := newTestClient(t, "Ann")
	tc.keys("\r\r")

	tc.handle.EventsCh <- HubEvent{Type: EventServerShutdown}
	tc.processHubEvents(context.Background())

	if tc.state.Phase != PhaseShutdown {
		t.Fatalf("Expected shutdown phase, got %v", tc.state.Phase)
	}
	if got := tc.state.Session.State(); got != game.StateQuit {
		t.Errorf("Expected session abandoned, got %v", got)
	}

	tc.state.delta = 5 * time.Second
	tc.update()
	if !tc.state.Running {
		t.Fatal("Expected client to keep running during the countdown")
	}
	tc.state.delta = 6 * time.Second
	tc.update()
	if tc.state.Running {
		t.Error("Expected client to stop when the countdown ends")
	}
}

func TestContextCancelStartsShutdown(t *testing.T) {
	tc := newTestClient(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tc.processHubEvents(ctx)
	if tc.state.Phase != PhaseShutdown {
		t.Errorf("Expected shutdown phase, got %v", tc.state.Phase)
	}

	tc.keys("q")
	if tc.state.Running {
		t.Error("Expected q to leave during shutdown")
	}
}

func TestDrawScreens(t *testing.T) {
	tc := newTestClient(t, "Ann")

	tc.updateScreen()
	if err := tc.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if out := tc.out.String(); !strings.Contains(out, "Enter your name") || !strings.Contains(out, "> Ann_") {
		t.Errorf("Expected name prompt, got %q", out)
	}

	tc.out.Reset()
	tc.keys("\r")
	tc.drawFrame()
	if out := tc.out.String(); !strings.Contains(out, "Choose a difficulty") || !strings.Contains(out, "3. Hard") ||
		!strings.Contains(out, "Easy/Medium/Hard") {
		t.Errorf("Expected difficulty prompt, got %q", out)
	}

	tc.out.Reset()
	tc.keys("\r")
	tc.drawFrame()
	out := tc.out.String()
	for _, want := range []string{"FRUIT CATCHER", "Player  Ann", "Score   0", "Lives   ♥♥♥♥♥", string(draw.BlockUpperHalf), "┌"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected playing frame to contain %q", want)
		}
	}

	tc.out.Reset()
	tc.keys("p")
	tc.drawFrame()
	if !strings.Contains(tc.out.String(), "PAUSED") {
		t.Error("Expected paused banner")
	}

	tc.out.Reset()
	tc.keys("p")
	tc.state.delta = 10 * time.Minute
	tc.update()
	tc.drawFrame()
	if out := tc.out.String(); !strings.Contains(out, "G A M E   O V E R") || !strings.Contains(out, "1. Ann") {
		t.Errorf("Expected game over screen with leaderboard, got %q", out)
	}
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          layout
	}{
		{
			name: "Wide terminal with HUD", width: 120, height: 50,
			want: layout{fieldCols: 64, fieldRows: 48, offsetCol: 15, offsetRow: 1, totalCols: 90, hudCol: 67},
		},
		{
			name: "Narrow terminal without HUD", width: 40, height: 30,
			want: layout{fieldCols: 37, fieldRows: 28, offsetCol: 1, offsetRow: 1, totalCols: 37},
		},
		{
			name: "Tall terminal limited by width", width: 80, height: 60,
			want: layout{fieldCols: 52, fieldRows: 39, offsetCol: 1, offsetRow: 10, totalCols: 78, hudCol: 55},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeLayout(tt.width, tt.height); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestHearts(t *testing.T) {
	tests := []struct {
		lives int
		want  string
	}{
		{5, "♥♥♥♥♥"},
		{2, "♥♥♡♡♡"},
		{0, "♡♡♡♡♡"},
		{-1, "♡♡♡♡♡"},
	}
	for _, tt := range tests {
		if got := hearts(tt.lives, 5); got != tt.want {
			t.Errorf("Expected %q for %d lives, got %q", tt.want, tt.lives, got)
		}
	}
}

func TestRunEndsOnQuit(t *testing.T) {
	board := leaderboard.NewStore(nil)
	hub := NewHub()
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), strings.NewReader("Ann\r\rq"), &out, Options{
			Board:        board,
			Hub:          hub,
			TermSizeFunc: func() (int, int, error) { return 100, 40, nil },
			Logger:       log.New(io.Discard),
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean exit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	if hub.Players() != 0 {
		t.Errorf("Expected client unregistered, got %d players", hub.Players())
	}
	if len(board.Load().Scores) != 0 {
		t.Error("Expected quit to record nothing")
	}
	if !strings.HasSuffix(out.String(), "\033[?25h") {
		t.Errorf("Expected cursor restored at exit, got %q", out.String()[max(out.Len()-20, 0):])
	}
}
