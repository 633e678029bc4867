// Package facerec is the typed client for the external face comparison
// service used during registration.
package facerec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// CompareResult is the comparison service's response contract. The fields
// are validated at this boundary instead of traversing untyped JSON.
type CompareResult struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	Error      string  `json:"error"`
	Confidence float64 `json:"confidence"`
}

// Reason returns whatever human-readable detail the service provided.
func (r *CompareResult) Reason() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return "no message"
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Compare submits the student card and the live webcam image and reports
// whether the faces match.
func (c *Client) Compare(ctx context.Context, email, tempID string, cardImage, liveImage []byte) (*CompareResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, part := range []struct {
		field, name string
		data        []byte
	}{
		{"card_image", "card.jpg", cardImage},
		{"webcam_image", "webcam.jpg", liveImage},
	} {
		fw, err := w.CreateFormFile(part.field, part.name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, err
		}
	}
	_ = w.WriteField("email", email)
	_ = w.WriteField("temp_id", tempID)
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/verify", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("face compare service: status %d: %s", res.StatusCode, b)
	}

	var out CompareResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("face compare service: invalid response: %w", err)
	}
	return &out, nil
}
