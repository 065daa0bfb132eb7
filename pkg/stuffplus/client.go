package stuffplus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request carries one pitch's metrics to the scoring service. Movement is
// in feet (the service's convention), release geometry in feet, spin in
// rpm, axis in degrees.
type Request struct {
	PitchType        string  `json:"pitch_type"`
	ReleaseSpeed     float64 `json:"release_speed"`
	PfxX             float64 `json:"pfx_x"`
	PfxZ             float64 `json:"pfx_z"`
	ReleaseExtension float64 `json:"release_extension"`
	ReleaseSpinRate  float64 `json:"release_spin_rate"`
	SpinAxis         float64 `json:"spin_axis"`
	ReleasePosX      float64 `json:"release_pos_x"`
	ReleasePosZ      float64 `json:"release_pos_z"`
	Throws           string  `json:"p_throws"`
	FBVelo           float64 `json:"fb_velo"`
	FBIVB            float64 `json:"fb_ivb"`
	FBHMov           float64 `json:"fb_hmov"`
}

// Response is the scoring service's prediction.
type Response struct {
	StuffPlus       float64 `json:"stuff_plus"`
	StuffPlusRaw    float64 `json:"stuff_plus_raw"`
	VelocityPenalty float64 `json:"velocity_penalty"`
}

// Client is a thin JSON client for the scoring service. The model itself
// lives behind that service; nothing here loads or evaluates it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Predict posts the pitch to /predict and returns the scored response.
func (c *Client) Predict(ctx context.Context, req Request) (*Response, error) {
	if _, ok := ValidPitchTypes[req.PitchType]; !ok {
		return nil, fmt.Errorf("invalid pitch type %q", req.PitchType)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("scoring request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service status %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode scoring response: %w", err)
	}
	return &out, nil
}
