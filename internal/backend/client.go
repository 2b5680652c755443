// Package backend is the HTTP client for the assistant backend service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"jarvisdesk/internal/domain"
)

// statusReady is the sentinel value meaning "consume this result and reset".
const statusReady = "ready"

// Client implements ports.BackendClient against the FastAPI surface.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// New builds a client for the given base address. Request deadlines are
// supplied by callers through ctx; the client itself never blocks forever.
func New(baseURL string, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base URL %q must be http or https", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:       base,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask requests a complete answer via the synchronous /chat endpoint.
func (c *Client) Ask(ctx context.Context, question, sessionID string) (string, error) {
	var out askResponse
	if err := c.postJSON(ctx, "/chat", askRequest{Question: question, SessionID: sessionID}, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Answer), nil
}

type streamRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"session_id"`
}

// StreamAsk requests a streamed answer via /stream_chat. Each chunk read from
// the response body is handed to onChunk in arrival order; the return value is
// the trimmed concatenation of all chunks.
func (c *Client) StreamAsk(ctx context.Context, question, sessionID string, onChunk func(chunk string)) (string, error) {
	body, err := json.Marshal(streamRequest{Input: question, SessionID: sessionID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/stream_chat"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stream_chat request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var answer strings.Builder
	buf := make([]byte, 2048)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			answer.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return "", fmt.Errorf("stream_chat read failed: %w", readErr)
		}
	}
	return strings.TrimSpace(answer.String()), nil
}

type speakRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type speakResponse struct {
	AudioURL string `json:"audio_url"`
}

// Speak requests synthesized audio for text and returns an absolute clip URL.
func (c *Client) Speak(ctx context.Context, text, sessionID string) (string, error) {
	var out speakResponse
	if err := c.postJSON(ctx, "/speak", speakRequest{Question: text, SessionID: sessionID}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AudioURL) == "" {
		return "", fmt.Errorf("speak returned no audio URL")
	}
	return c.ResolveURL(out.AudioURL)
}

type handshakeResponse struct {
	Status   string `json:"status"`
	AudioURL string `json:"audio_url"`
}

// HandshakeReply polls /get_handshake_reply for a wake-word acknowledgement.
func (c *Client) HandshakeReply(ctx context.Context) (domain.HandshakeReply, error) {
	var out handshakeResponse
	if err := c.getJSON(ctx, "/get_handshake_reply", &out); err != nil {
		return domain.HandshakeReply{}, err
	}
	if out.Status != statusReady {
		return domain.HandshakeReply{}, nil
	}
	resolved, err := c.ResolveURL(out.AudioURL)
	if err != nil {
		return domain.HandshakeReply{}, err
	}
	return domain.HandshakeReply{Ready: true, AudioURL: resolved}, nil
}

type voiceQueryResponse struct {
	Status string `json:"status"`
	Query  string `json:"query"`
}

// VoiceQuery polls /get_voice_query for a completed transcription.
func (c *Client) VoiceQuery(ctx context.Context) (domain.VoiceQuery, error) {
	var out voiceQueryResponse
	if err := c.getJSON(ctx, "/get_voice_query", &out); err != nil {
		return domain.VoiceQuery{}, err
	}
	if out.Status != statusReady {
		return domain.VoiceQuery{}, nil
	}
	return domain.VoiceQuery{Ready: true, Query: strings.TrimSpace(out.Query)}, nil
}

type uploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadDocument posts a local file to /upload_doc as multipart form data.
// The backend reports some failures in-band with HTTP 200, so a non-empty
// error field is treated as failure.
func (c *Client) UploadDocument(ctx context.Context, path, sessionID string) (domain.UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return domain.UploadResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.UploadResult{}, fmt.Errorf("read document: %w", err)
	}
	if err := writer.WriteField("session_id", sessionID); err != nil {
		return domain.UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return domain.UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload_doc"), &body)
	if err != nil {
		return domain.UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload_doc request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return domain.UploadResult{}, err
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload_doc decode failed: %w", err)
	}
	if out.Error != "" {
		return domain.UploadResult{}, fmt.Errorf("upload_doc rejected: %s", out.Error)
	}
	return domain.UploadResult{Filename: out.Filename, Status: out.Status}, nil
}

// ResolveURL resolves a possibly relative URL against the backend base address.
func (c *Client) ResolveURL(raw string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode failed: %w", path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, detail)
}
