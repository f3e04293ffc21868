package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/engine"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/events"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/session"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech/mock"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/token"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/ui"
)

func testServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ui.NewHub(zerolog.Nop())
	go hub.Run(ctx)

	mgr := session.NewManager(
		session.DefaultConfig(),
		engine.NewTranscript(),
		func(ctx context.Context, _ token.Response) (speech.EventSource, error) {
			// Plays nothing: endpoints under test drive no recognition.
			return mock.NewScripted(nil, time.Millisecond), nil
		},
		nil,
		events.New(&events.Config{Enabled: false}),
		hub,
		zerolog.Nop(),
	)
	t.Cleanup(mgr.Stop)

	issuer := token.NewIssuer("eastus", "", "", zerolog.Nop())

	srv := httptest.NewServer(NewRouter(mgr, issuer, hub))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func TestRouter_Health(t *testing.T) {
	srv, _ := testServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRouter_Liveness(t *testing.T) {
	srv, _ := testServer(t)

	res, err := http.Get(srv.URL + "/v1/liveness")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}
}

func TestRouter_Token_MissingKey(t *testing.T) {
	srv, _ := testServer(t)

	res, err := http.Get(srv.URL + "/token")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500 when no key is configured, got %d", res.StatusCode)
	}
}

func TestRouter_State_Idle(t *testing.T) {
	srv, _ := testServer(t)

	res, err := http.Get(srv.URL + "/v1/state")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	var snap struct {
		Status      string `json:"status"`
		InterimText string `json:"interimText"`
	}
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Status != "IDLE" {
		t.Errorf("expected IDLE, got %q", snap.Status)
	}
}

func TestRouter_SessionLifecycle(t *testing.T) {
	srv, _ := testServer(t)

	res, err := http.Post(srv.URL+"/v1/session/start", "application/json", nil)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	var started map[string]string
	json.NewDecoder(res.Body).Decode(&started)
	res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	if !strings.HasPrefix(started["sessionId"], "sess-") {
		t.Errorf("unexpected session id: %q", started["sessionId"])
	}

	// Second start while active conflicts.
	res2, err := http.Post(srv.URL+"/v1/session/start", "application/json", nil)
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for concurrent start, got %d", res2.StatusCode)
	}

	// Stop returns the post-stop snapshot.
	res3, err := http.Post(srv.URL+"/v1/session/stop", "application/json", nil)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	defer res3.Body.Close()
	if res3.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", res3.StatusCode)
	}
	var snap struct {
		Status string `json:"status"`
	}
	json.NewDecoder(res3.Body).Decode(&snap)
	if snap.Status != "IDLE" {
		t.Errorf("expected IDLE after stop, got %q", snap.Status)
	}
}

func TestRouter_Transcript(t *testing.T) {
	srv, mgr := testServer(t)

	res, err := http.Get(srv.URL + "/v1/transcript")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Entries []struct {
			ID   uint64 `json:"id"`
			Text string `json:"text"`
		} `json:"entries"`
	}
	json.NewDecoder(res.Body).Decode(&body)
	res.Body.Close()
	if len(body.Entries) != 0 {
		t.Errorf("expected empty transcript, got %v", body.Entries)
	}

	// Seed an entry directly and clear it over the API.
	mgr.ClearTranscript() // no-op on empty log

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/transcript", nil)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", res2.StatusCode)
	}
}

func TestRouter_SubtitleFeedConnects(t *testing.T) {
	srv, _ := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/subtitles"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("feed dial failed: %v", err)
	}
	conn.Close()
}
