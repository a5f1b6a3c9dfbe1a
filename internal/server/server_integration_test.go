package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/signbridge/internal/app"
	"github.com/ayusman/signbridge/internal/capture"
	"github.com/ayusman/signbridge/internal/detector"
	"github.com/ayusman/signbridge/internal/gesture"
	"github.com/ayusman/signbridge/internal/store"
)

func TestAPI_ClipWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Map a new phrase
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/clips/Thank%20you",
		bytes.NewBufferString(`{"clips": ["thank.mp4", "you.mp4"]}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/clips error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 2. Speech resolves through the new phrase
	resp, err = client.Post(ts.URL+"/api/speech", "application/json", bytes.NewBufferString(`{"text": "Thank you!"}`))
	if err != nil {
		t.Fatalf("POST /api/speech error = %v", err)
	}
	var spoken struct {
		Normalized string   `json:"normalized"`
		Clips      []string `json:"clips"`
	}
	json.NewDecoder(resp.Body).Decode(&spoken)
	resp.Body.Close()

	if spoken.Normalized != "thank you" || strings.Join(spoken.Clips, ",") != "thank.mp4,you.mp4" {
		t.Errorf("speech = %+v", spoken)
	}

	// 3. The mapping is persisted
	if _, err := s.Clips().Get("thank you"); err != nil {
		t.Errorf("Clips().Get() error = %v", err)
	}

	// 4. Delete it
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/clips/thank%20you", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 5. Verify deleted
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/clips/thank%20you", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("DELETE after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_ClassifyAndDetections(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := app.New(app.Config{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Store:    s,
	})

	ts := httptest.NewServer(New(Config{Store: s, Pipeline: a, Dispatcher: a.Dispatcher()}))
	defer ts.Close()

	body, _ := json.Marshal(map[string]any{
		"hands": []detector.Hand{
			detector.ThumbsUpLandmarks().Translate(0.05, 0).Hand(),
			detector.OpenPalmLandmarks().Hand(),
		},
	})
	resp, err := ts.Client().Post(ts.URL+"/api/classify", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/classify error = %v", err)
	}
	var classified struct {
		Gesture    string `json:"gesture"`
		Confidence int    `json:"confidence"`
	}
	json.NewDecoder(resp.Body).Decode(&classified)
	resp.Body.Close()

	if classified.Gesture != gesture.Help || classified.Confidence != 90 {
		t.Errorf("classify = %+v, want Help/90", classified)
	}

	// The live pipeline records detections; feed it directly.
	a.ProcessFrame(detector.NewFrame(time.Now(), detector.OpenPalmLandmarks()))

	resp, err = ts.Client().Get(ts.URL + "/api/detections?limit=5")
	if err != nil {
		t.Fatalf("GET /api/detections error = %v", err)
	}
	var listed struct {
		Detections []struct {
			Gesture string `json:"gesture"`
		} `json:"detections"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Detections) != 1 || listed.Detections[0].Gesture != gesture.Hello {
		t.Errorf("detections = %+v, want one Hello", listed.Detections)
	}

	// Toggle detection off through the API
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/status", bytes.NewBufferString(`{"enabled": false}`))
	resp, err = ts.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT /api/status error = %v", err)
	}
	resp.Body.Close()

	if a.IsEnabled() {
		t.Error("expected detection disabled")
	}
	if s.Settings().Bool(store.SettingEnabled, true) {
		t.Error("expected disabled state persisted")
	}
}

func TestAPI_Stream(t *testing.T) {
	hub := NewHub(nil)
	srv := New(Config{Hub: hub})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Shutdown(t.Context())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(app.Event{
		Report:  gesture.Report{Gesture: gesture.Hello, Confidence: 100, Hands: 1, Hints: []gesture.Hint{gesture.HintDetected}},
		Stable:  gesture.Hello,
		Changed: true,
		Caption: "Current Gesture: Hello",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got app.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if got.Stable != gesture.Hello || got.Caption != "Current Gesture: Hello" {
		t.Errorf("event = %+v", got)
	}
	if len(got.Report.Hints) != 1 || got.Report.Hints[0] != gesture.HintDetected {
		t.Errorf("hints = %v", got.Report.Hints)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
