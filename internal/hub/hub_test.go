package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type touchCall struct {
	event    character.InputEvent
	finger   int
	location character.Vector3
	viewport gamepad.Vector
}

type fakeInput struct {
	mu      sync.Mutex
	touches []touchCall
	axes    map[string]float64
	actions map[string]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{axes: map[string]float64{}, actions: map[string]bool{"Jump": false}}
}

func (f *fakeInput) Touch(event character.InputEvent, finger int, location character.Vector3, viewport gamepad.Vector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches = append(f.touches, touchCall{event, finger, location, viewport})
}

func (f *fakeInput) SetAxis(name string, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.axes[name] = value
}

func (f *fakeInput) Action(name string, pressed bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actions[name]; !ok {
		return false
	}
	f.actions[name] = pressed
	return true
}

func (f *fakeInput) touchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.touches)
}

type fakeDevice struct {
	mu       sync.Mutex
	hardware bool
	played   int
	params   [2]float64
	err      error
}

func (f *fakeDevice) ToggleHardwareController(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hardware = on
}

func (f *fakeDevice) PlayHaptics() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played++
	return f.err
}

func (f *fakeDevice) UpdateHaptics(intensity, sharpness float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = [2]float64{intensity, sharpness}
	return f.err
}

func (f *fakeDevice) Snapshot() gamepad.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return gamepad.State{Connected: f.hardware, Initialized: f.hardware, Name: "fake"}
}

func TestControlsTouch(t *testing.T) {
	in := newFakeInput()
	c := &Controls{Input: in, Device: &fakeDevice{}}

	phases := []struct {
		phase string
		want  character.InputEvent
	}{
		{PhaseBegan, character.Pressed},
		{PhaseMoved, character.Moved},
		{PhaseEnded, character.Released},
	}
	for _, p := range phases {
		msg := &ClientMessage{Type: CmdTouch, Phase: p.phase, Finger: 1, X: 10, Y: 20, Width: 800, Height: 600}
		if _, err := c.Handle(msg); err != nil {
			t.Fatalf("%s: %v", p.phase, err)
		}
	}
	if len(in.touches) != 3 {
		t.Fatalf("touches = %d", len(in.touches))
	}
	for i, p := range phases {
		got := in.touches[i]
		if got.event != p.want {
			t.Errorf("touch %d event = %v, want %v", i, got.event, p.want)
		}
		if got.location != (character.Vector3{X: 10, Y: 20}) || got.viewport != (gamepad.Vector{X: 800, Y: 600}) {
			t.Errorf("touch %d = %+v", i, got)
		}
	}

	if _, err := c.Handle(&ClientMessage{Type: CmdTouch, Phase: "hover"}); !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("err = %v, want ErrUnknownPhase", err)
	}
}

func TestControlsAxisAndAction(t *testing.T) {
	in := newFakeInput()
	c := &Controls{Input: in, Device: &fakeDevice{}}

	if _, err := c.Handle(&ClientMessage{Type: CmdAxis, Name: "MoveForward", Value: 0.5}); err != nil {
		t.Fatal(err)
	}
	if in.axes["MoveForward"] != 0.5 {
		t.Errorf("axis = %v", in.axes["MoveForward"])
	}

	if _, err := c.Handle(&ClientMessage{Type: CmdAction, Name: "Jump", Pressed: true}); err != nil {
		t.Fatal(err)
	}
	if !in.actions["Jump"] {
		t.Error("Jump not pressed")
	}
	if _, err := c.Handle(&ClientMessage{Type: CmdAction, Name: "Fly", Pressed: true}); !errors.Is(err, ErrUnboundAction) {
		t.Errorf("err = %v, want ErrUnboundAction", err)
	}
}

func TestControlsHapticsAndToggle(t *testing.T) {
	dev := &fakeDevice{}
	c := &Controls{Input: newFakeInput(), Device: dev}

	if _, err := c.Handle(&ClientMessage{Type: CmdHaptics}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Handle(&ClientMessage{Type: CmdHaptics, Mode: "update", Intensity: 0.2, Sharpness: 0.9}); err != nil {
		t.Fatal(err)
	}
	if dev.played != 1 || dev.params != [2]float64{0.2, 0.9} {
		t.Errorf("device = %+v", dev)
	}
	if _, err := c.Handle(&ClientMessage{Type: CmdHaptics, Mode: "buzz"}); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}

	dev.err = gamepad.ErrHapticsNotInitialized
	if _, err := c.Handle(&ClientMessage{Type: CmdHaptics}); !errors.Is(err, gamepad.ErrHapticsNotInitialized) {
		t.Errorf("err = %v", err)
	}

	reply, err := c.Handle(&ClientMessage{Type: CmdToggleHardware, Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || reply.Event != EventHardwareToggled || reply.Data == nil || !reply.Data.Connected {
		t.Errorf("reply = %+v", reply)
	}

	if _, err := c.Handle(&ClientMessage{Type: "select_player"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
}

type testServer struct {
	hub    *Hub
	bc     *Broadcaster
	srv    *httptest.Server
	states chan gamepad.State
	input  *fakeInput
	logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts := &testServer{
		hub:    NewHub(log),
		states: make(chan gamepad.State, 8),
		input:  newFakeInput(),
		logs:   logs,
	}
	ts.bc = NewBroadcaster(ts.hub, ts.states, gamepad.State{Name: "initial"}, log)
	go ts.hub.Run(ctx)
	go ts.bc.Run(ctx)

	handler := &Controls{Input: ts.input, Device: &fakeDevice{}}
	upgrader := websocket.Upgrader{}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(ts.hub, conn)
		ts.hub.Register(c)
		ts.bc.SendInitialState(c)
		go c.WritePump()
		go c.ReadPump(handler)
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInitialStateAndDelta(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)

	welcome := readMessage(t, conn)
	if welcome.Type != TypeEvent || welcome.Event != EventWelcome || welcome.ClientID == "" {
		t.Fatalf("welcome = %+v", welcome)
	}
	full := readMessage(t, conn)
	if full.Type != TypeFull || full.Data == nil || full.Data.Name != "initial" {
		t.Fatalf("full = %+v", full)
	}

	waitFor(t, "registration", func() bool { return ts.hub.Len() == 1 })
	ts.states <- gamepad.State{Name: "initial", Connected: true}

	delta := readMessage(t, conn)
	if delta.Type != TypeDelta || delta.Changes == nil || delta.Changes.Connected == nil || !*delta.Changes.Connected {
		t.Fatalf("delta = %+v", delta)
	}
	if delta.Changes.Name != nil || delta.Changes.Buttons != nil {
		t.Errorf("unchanged fields in delta: %+v", delta.Changes)
	}
	if delta.Seq <= full.Seq {
		t.Errorf("seq %d not after %d", delta.Seq, full.Seq)
	}
	if !ts.bc.State().Connected {
		t.Error("broadcaster state not updated")
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	ts := newTestServer(t)
	a, b := ts.dial(t), ts.dial(t)
	for _, c := range []*websocket.Conn{a, b} {
		readMessage(t, c)
		readMessage(t, c)
	}
	waitFor(t, "registration", func() bool { return ts.hub.Len() == 2 })

	ts.states <- gamepad.State{Name: "initial", Orientation: gamepad.Rotator{Yaw: 90}}
	for i, c := range []*websocket.Conn{a, b} {
		msg := readMessage(t, c)
		if msg.Changes == nil || msg.Changes.Orientation == nil || msg.Changes.Orientation.Yaw != 90 {
			t.Errorf("client %d got %+v", i, msg)
		}
	}
}

func TestClientCommands(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	readMessage(t, conn)
	readMessage(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	cmd := ClientMessage{Type: CmdTouch, Phase: PhaseBegan, X: 100, Y: 500, Width: 1000, Height: 800}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "touch", func() bool { return ts.input.touchCount() == 1 })

	if err := conn.WriteJSON(ClientMessage{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	reply := readMessage(t, conn)
	if reply.Event != EventError || !strings.Contains(reply.Error, "unknown command") {
		t.Errorf("reply = %+v", reply)
	}

	if n := ts.logs.FilterMessage("Error parsing client message").Len(); n != 1 {
		t.Errorf("parse errors logged = %d", n)
	}
	if n := ts.logs.FilterMessage("Command failed").Len(); n != 1 {
		t.Errorf("command failures logged = %d", n)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	waitFor(t, "registration", func() bool { return ts.hub.Len() == 1 })

	conn.Close()
	waitFor(t, "unregister", func() bool { return ts.hub.Len() == 0 })
	if n := ts.logs.FilterMessage("Client disconnected").Len(); n != 1 {
		t.Errorf("disconnects logged = %d", n)
	}
}
