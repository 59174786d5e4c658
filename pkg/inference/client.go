// Package inference calls the hosted image captioning model.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"visualcaption/pkg/metrics"
)

const (
	// DefaultEndpoint is the public captioning Space.
	DefaultEndpoint = "https://kRnos22-image-caption-vi.hf.space/predict"
	// DefaultTimeout bounds a whole caption request.
	DefaultTimeout = 30 * time.Second
)

// Client posts images to a captioning endpoint that answers {"data": [caption, ...]}.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client. Empty values fall back to the defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type predictResponse struct {
	Data []interface{} `json:"data"`
}

// Caption sends the image as multipart field "image" and returns data[0].
// A response without data yields an empty caption.
func (c *Client) Caption(ctx context.Context, image []byte) (caption string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("caption", start, err) }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read caption response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("caption http %d: %s", resp.StatusCode, string(raw))
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode caption response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", nil
	}
	if s, ok := out.Data[0].(string); ok {
		return s, nil
	}
	return fmt.Sprint(out.Data[0]), nil
}
