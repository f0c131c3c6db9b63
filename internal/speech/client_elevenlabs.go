package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

var ErrBadVoiceID = errors.New("malformed voice id")

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultModel = "eleven_multilingual_v2"
)

type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	model   string
	httpCli *http.Client
}

func NewElevenLabsClient(apiKey, baseURL, model string, httpCli *http.Client) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY not set")
	}
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}
	if model == "" {
		model = elevenLabsDefaultModel
	}
	if httpCli == nil {
		httpCli = http.DefaultClient
	}

	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpCli: httpCli,
	}, nil
}

func (c *ElevenLabsClient) Name() string {
	return "elevenlabs"
}

// TEXT → SPEECH
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" || voiceID == "." || voiceID == ".." {
		return nil, fmt.Errorf("%w: %q", ErrBadVoiceID, voiceID)
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, url.PathEscape(voiceID))

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.model,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", ContentTypeMP3)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (%d): %s", resp.StatusCode, string(b))
	}

	return io.ReadAll(resp.Body)
}
