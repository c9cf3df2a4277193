// Package runtime talks to the model-serving sidecar that holds the
// pretrained checkpoints in memory and runs generation on the selected device.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xpanvictor/vietrans/pkg/Logger"
)

const (
	DefaultTimeout = 120 * time.Second

	maxErrorBody = 2048
)

var ErrEmptyResponse = errors.New("runtime returned empty response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("runtime %s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

type LoadRequest struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Device string `json:"device"`
}

type LoadResponse struct {
	ModelID string `json:"model_id"`
	Device  string `json:"device,omitempty"`
}

type TranscribeParams struct {
	ModelID           string
	Language          string
	NumBeams          int
	MaxLength         int
	NoRepeatNgramSize int
}

type TranslateRequest struct {
	ModelID        string  `json:"model_id"`
	Text           string  `json:"text"`
	NumBeams       int     `json:"num_beams"`
	LengthPenalty  float64 `json:"length_penalty"`
	MaxLength      int     `json:"max_length"`
	MaxInputTokens int     `json:"max_input_tokens"`
	Padding        bool    `json:"padding"`
}

type textResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Client handles communication with the inference runtime.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *Logger.Logger
}

// NewClient creates a runtime client; timeout bounds every call.
func NewClient(baseURL string, timeout time.Duration, logger *Logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health returns nil when the runtime answers GET /health with 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = c.do(req, "/health")
	return err
}

// LoadModel asks the runtime to load a checkpoint; loading an already loaded
// path is expected to return the same model id.
func (c *Client) LoadModel(ctx context.Context, in LoadRequest) (LoadResponse, error) {
	var out LoadResponse
	if err := c.postJSON(ctx, "/v1/models/load", in, &out); err != nil {
		return LoadResponse{}, err
	}
	if out.ModelID == "" {
		return LoadResponse{}, fmt.Errorf("load %s: %w", in.Path, ErrEmptyResponse)
	}
	return out, nil
}

// Transcribe uploads a WAV file and returns the decoded text.
func (c *Client) Transcribe(ctx context.Context, wavData []byte, p TranscribeParams) (string, error) {
	if len(wavData) == 0 {
		return "", errors.New("no audio data provided")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	query := url.Values{}
	query.Set("model_id", p.ModelID)
	if p.Language != "" {
		query.Set("language", p.Language)
	}
	setPositive(query, "num_beams", p.NumBeams)
	setPositive(query, "max_length", p.MaxLength)
	setPositive(query, "no_repeat_ngram_size", p.NoRepeatNgramSize)

	const endpoint = "/v1/speech/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint+"?"+query.Encode(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}

	var out textResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	c.logger.Debugf("runtime transcription: %q (language: %s)", out.Text, out.Language)
	return out.Text, nil
}

// Translate runs text generation on a loaded translation model.
func (c *Client) Translate(ctx context.Context, in TranslateRequest) (string, error) {
	var out textResponse
	if err := c.postJSON(ctx, "/v1/translation/generate", in, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := strings.TrimSpace(string(raw))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Errorf("runtime error (status %d) on %s: %s", resp.StatusCode, endpoint, body)
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: body}
	}

	if req.Method == http.MethodPost && len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrEmptyResponse)
	}
	return raw, nil
}

func setPositive(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
