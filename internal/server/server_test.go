package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soar/padbridge/internal/gamepad"
	"github.com/soar/padbridge/internal/hub"
)

type staticState gamepad.State

func (s staticState) Snapshot() gamepad.State { return gamepad.State(s) }

type recorder struct {
	got chan *hub.ClientMessage
}

func (r *recorder) Handle(msg *hub.ClientMessage) (*hub.WSMessage, error) {
	r.got <- msg
	return nil, nil
}

var frontend = fstest.MapFS{
	"index.html": {Data: []byte("<!DOCTYPE html>\n<html>\n  <head>\n    <title>pad</title>\n  </head>\n  <body>\n    <p>  hello  </p>\n  </body>\n</html>\n")},
	"app.js":     {Data: []byte("function add(first, second) {\n  return first + second;\n}\nconsole.log(add(1, 2));\n")},
	"style.css":  {Data: []byte("body {\n  margin: 0px;\n  color: #ffffff;\n}\n")},
	"icon.txt":   {Data: []byte("keep  as  is\n")},
}

func newTestServer(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	state := staticState{Connected: true, Name: "fake pad", Orientation: gamepad.Rotator{Yaw: 30}}
	h := hub.NewHub(nil)
	b := hub.NewBroadcaster(h, make(chan gamepad.State), gamepad.State(state), nil)
	go h.Run(ctx)
	go b.Run(ctx)

	rec := &recorder{got: make(chan *hub.ClientMessage, 4)}
	s, err := New(h, b, rec, state, frontend, "127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, rec
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestState(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var st gamepad.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Connected || st.Name != "fake pad" || st.Orientation.Yaw != 30 {
		t.Errorf("state = %+v", st)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/state", nil)
	post, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", post.StatusCode)
	}
}

func TestStaticMinified(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path     string
		original string
		ctype    string
	}{
		{"/", "index.html", "text/html"},
		{"/app.js", "app.js", "javascript"},
		{"/style.css", "style.css", "text/css"},
	}
	for _, tt := range tests {
		resp, body := get(t, ts.URL+tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d", tt.path, resp.StatusCode)
			continue
		}
		if !strings.Contains(resp.Header.Get("Content-Type"), tt.ctype) {
			t.Errorf("%s: content type = %q", tt.path, resp.Header.Get("Content-Type"))
		}
		if len(body) >= len(frontend[tt.original].Data) {
			t.Errorf("%s: %d bytes, not smaller than %d", tt.path, len(body), len(frontend[tt.original].Data))
		}
	}

	_, body := get(t, ts.URL+"/icon.txt")
	if body != "keep  as  is\n" {
		t.Errorf("non-minifiable asset changed: %q", body)
	}

	resp, _ := get(t, ts.URL+"/missing.js")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing: status = %d", resp.StatusCode)
	}
}

func TestWebSocket(t *testing.T) {
	ts, rec := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var welcome, full hub.WSMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&full); err != nil {
		t.Fatal(err)
	}
	if welcome.ClientID == "" {
		t.Errorf("welcome = %+v", welcome)
	}
	if full.Type != hub.TypeFull || full.Data == nil || full.Data.Name != "fake pad" {
		t.Errorf("full = %+v", full)
	}

	if err := conn.WriteJSON(hub.ClientMessage{Type: hub.CmdAxis, Name: "TurnRate", Value: -1}); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-rec.got:
		if msg.Type != hub.CmdAxis || msg.Name != "TurnRate" || msg.Value != -1 {
			t.Errorf("command = %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command not delivered")
	}
}
