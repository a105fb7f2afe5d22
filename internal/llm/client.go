package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherical/cv-extractor/internal/domain"
)

const (
	openRouterURL  = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel   = "google/gemini-2.5-flash"
	defaultTimeout = 2 * time.Minute
)

// Client handles communication with the OpenRouter chat-completions API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      *RetryConfig
	logger     *domain.Logger
}

// Config holds client settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Retry   *RetryConfig
}

// Message represents a chat message
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text, image or file)
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	File     *FileData `json:"file,omitempty"`
}

// ImageURL represents an image URL in the message
type ImageURL struct {
	URL string `json:"url"`
}

// FileData carries an inline document
type FileData struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

// ResponseFormat constrains the model output
type ResponseFormat struct {
	Type string `json:"type"`
}

// Request represents the API request structure
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Response represents the API response structure
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Choice represents a single completion choice
type Choice struct {
	Message      Delta  `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// Delta represents message content in a response
type Delta struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// NewClient creates a new LLM client
func NewClient(apiKey, model string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey, Model: model})
}

// NewClientWithConfig creates a client with explicit endpoint, timeout and retry settings
func NewClientWithConfig(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry == nil {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retry:      cfg.Retry,
		logger:     domain.DefaultLogger.WithPrefix("llm"),
	}
}

// Model returns the model used for extraction
func (c *Client) Model() string {
	return c.model
}

// Extract sends the upload to the model and decodes the returned CV record
func (c *Client) Extract(ctx context.Context, upload *domain.Upload) (*domain.CVRecord, error) {
	if c.apiKey == "" {
		return nil, domain.ConfigError("API key is required", nil)
	}

	req, err := c.buildRequest(upload)
	if err != nil {
		return nil, domain.APIError("Failed to build request", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.APIError("Failed to marshal request", err)
	}

	c.logger.Debug("Sending %s (%s, %d bytes request) to %s", upload.Filename, upload.MIMEType, len(body), c.model)

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("HTTP-Referer", "https://github.com/spherical/cv-extractor")
		httpReq.Header.Set("X-Title", "CV Extractor")

		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return nil, domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, domain.APIError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	return parseResponse(resp.Body)
}

// buildRequest constructs the API request. Rasterized pages are sent as
// images, anything else as an inline file.
func (c *Client) buildRequest(upload *domain.Upload) (*Request, error) {
	if upload == nil {
		return nil, fmt.Errorf("upload is nil")
	}

	parts := []ContentPart{{Type: "text", Text: buildPrompt()}}

	if len(upload.Images) > 0 {
		for _, img := range upload.Images {
			data, err := os.ReadFile(img.ImagePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read page %d image: %w", img.PageNumber, err)
			}
			parts = append(parts, ContentPart{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: dataURL(domain.MIMETypeJPEG, data)},
			})
		}
	} else {
		data, err := os.ReadFile(upload.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		filename := upload.Filename
		if filename == "" {
			filename = filepath.Base(upload.Path)
		}
		part := ContentPart{Type: "file", File: &FileData{Filename: filename, FileData: dataURL(upload.MIMEType, data)}}
		if strings.HasPrefix(upload.MIMEType, "image/") {
			part = ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: dataURL(upload.MIMEType, data)}}
		}
		parts = append(parts, part)
	}

	return &Request{
		Model:          c.model,
		Messages:       []Message{{Role: "user", Content: parts}},
		Stream:         false,
		Temperature:    0,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}, nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// parseResponse decodes the chat-completions envelope and the JSON record inside it
func parseResponse(body io.Reader) (*domain.CVRecord, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.APIError("Failed to read response body", err)
	}

	var apiResp Response
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, domain.APIError("Failed to parse API response", err)
	}
	if apiResp.Error != nil {
		return nil, domain.APIError("provider error: "+apiResp.Error.Message, nil)
	}
	if len(apiResp.Choices) == 0 {
		return nil, domain.APIError("No choices in API response", nil)
	}

	record, err := ParseRecordJSON(apiResp.Choices[0].Message.Content)
	if err != nil {
		return nil, domain.ExtractionError("Failed to decode CV record", err)
	}
	return record, nil
}

// ParseRecordJSON extracts the JSON object from model output, tolerating
// markdown fences and surrounding prose.
func ParseRecordJSON(content string) (*domain.CVRecord, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var record domain.CVRecord
	if err := json.Unmarshal([]byte(content[start:end+1]), &record); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &record, nil
}
