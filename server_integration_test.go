package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pitchlab/pkg/extract"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// stubRecognizer returns a canned fragment set so upload tests don't need a
// tesseract install or a real screen image.
type stubRecognizer struct{}

func (stubRecognizer) Fragments(path string) ([]extract.Fragment, error) {
	box := func(cx, cy, w, h float64) extract.Rect {
		return extract.Rect{MinX: cx - w/2, MaxX: cx + w/2, MinY: cy - h/2, MaxY: cy + h/2}
	}
	return []extract.Fragment{
		{Text: "PITCH SPEED", Confidence: 0.9, Box: box(0.5, 0.9, 0.2, 0.04)},
		{Text: "92.4 MPH", Confidence: 0.9, Box: box(0.5, 0.82, 0.2, 0.08)},
		{Text: "TOTAL SPIN", Confidence: 0.9, Box: box(0.2, 0.6, 0.2, 0.04)},
		{Text: "2310 RPM", Confidence: 0.9, Box: box(0.2, 0.52, 0.2, 0.06)},
		{Text: "TILT", Confidence: 0.9, Box: box(0.8, 0.6, 0.1, 0.04)},
		{Text: "1:30", Confidence: 0.9, Box: box(0.8, 0.52, 0.1, 0.06)},
	}, nil
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	seedDB()
	recognizer = stubRecognizer{}
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass12"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		b := resp.Body.String()
		t.Fatalf("register failed status=%d body=%s", resp.Code, b)
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass12"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("login failed status=%d body=%s", resp.Code, b)
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create profile
	profBody, _ := json.Marshal(map[string]string{"name": "User One", "throws": "R"})
	resp = performRequest(r, http.MethodPost, "/profile", bytes.NewBuffer(profBody), token, "application/json")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("create profile failed status=%d body=%s", resp.Code, b)
	}

	// 4. Upload a screen (multipart); stub recognizer makes extraction deterministic
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("folder", "screens")
	w, _ := mw.CreateFormFile("file", "readout.png")
	_, _ = w.Write([]byte("FAKEPNG"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/uploads", buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("upload failed status=%d body=%s", resp.Code, b)
	}
	var upResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &upResp)
	if _, ok := upResp["pitch_id"]; !ok {
		t.Fatalf("upload response missing pitch_id: %+v", upResp)
	}

	// 5. Create a manual pitch
	pitchBody, _ := json.Marshal(map[string]any{"pitch_type": "SL", "speed": 84.2, "total_spin": 2600})
	resp = performRequest(r, http.MethodPost, "/pitches", bytes.NewBuffer(pitchBody), token, "application/json")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("create pitch failed status=%d body=%s", resp.Code, b)
	}

	// 6. List pitches (filtered)
	resp = performRequest(r, http.MethodGet, "/pitches?pitch_type=SL", nil, token, "")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("list pitches failed status=%d body=%s", resp.Code, b)
	}

	// 7. Unknown pitch type is rejected
	badBody, _ := json.Marshal(map[string]any{"pitch_type": "XX", "speed": 84.2})
	resp = performRequest(r, http.MethodPost, "/pitches", bytes.NewBuffer(badBody), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown pitch type got %d", resp.Code)
	}

	// 8. List uploads
	resp = performRequest(r, http.MethodGet, "/uploads", nil, token, "")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("list uploads failed status=%d body=%s", resp.Code, b)
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/pitches", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list pitches got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
