// Package vision is the client for the external AI drawing-extraction and
// pricing service. The service is schema-requested but not schema-guaranteed:
// callers must treat every response field as optional.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client is the capability interface consumed by the import flow. Any
// implementation (real API client, offline stub, test fake) is
// interchangeable.
type Client interface {
	// ScanStructure enumerates equipment candidates in a document. May
	// return an empty list.
	ScanStructure(ctx context.Context, doc Document) ([]map[string]any, error)

	// ExtractDetails extracts the bill of materials for one identified
	// equipment. Field-level omissions are possible.
	ExtractDetails(ctx context.Context, doc Document, targetTag, pageContext string) (map[string]any, error)

	// LookupPrices returns approximate market prices per kilogram for the
	// given material grade names. Keys may only partially match.
	LookupPrices(ctx context.Context, materialNames []string) (map[string]float64, error)
}

type client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewClient builds the HTTP client from environment configuration.
// VISION_API_KEY is required; VISION_BASE_URL, VISION_MODEL,
// VISION_TIMEOUT_SECONDS and VISION_MAX_RETRIES are optional.
func NewClient() (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("VISION_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing VISION_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("VISION_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("VISION_MODEL"))
	if model == "" {
		model = "gpt-5.2"
	}

	timeoutSec := 180
	if v := os.Getenv("VISION_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("VISION_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

// NewClientWithHTTP is used by tests to inject a transport.
func NewClientWithHTTP(baseURL, apiKey, model string, hc *http.Client) Client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: hc,
	}
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("vision http %d: %s", e.StatusCode, e.Body)
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, data, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, data, err := c.doOnce(ctx, method, path, body)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			return json.Unmarshal(data, out)
		}
		lastErr = &httpError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		if !retryable(resp.StatusCode) {
			return lastErr
		}
	}
	return lastErr
}

// -------------------- Responses API --------------------

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`

	Text struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

// CleanModelJSON strips markdown code-fence artifacts the model sometimes
// wraps around schema-requested JSON output.
func CleanModelJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// generateJSON runs one schema-requested call and returns the parsed object.
func (c *client) generateJSON(ctx context.Context, system string, user any, schemaName string, schema map[string]any) (map[string]any, error) {
	req := responsesRequest{
		Model: c.model,
		Input: []inputMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	var resp responsesResponse
	if err := c.do(ctx, "POST", "/v1/responses", req, &resp); err != nil {
		return nil, err
	}
	if resp.Refusal != "" {
		return nil, fmt.Errorf("model refused: %s", resp.Refusal)
	}

	jsonText := CleanModelJSON(extractOutputText(resp))
	if jsonText == "" {
		return nil, errors.New("no output_text found in response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w; text=%s", err, jsonText)
	}
	return obj, nil
}

// documentParts builds the multimodal user content for a document: a text
// instruction followed by the document payload as a base64 data URL.
func documentParts(instruction string, doc Document) []contentPart {
	parts := []contentPart{{Type: "input_text", Text: instruction}}
	encoded := base64.StdEncoding.EncodeToString(doc.Data)
	if doc.IsPDF() {
		parts = append(parts, contentPart{
			Type:     "input_file",
			Filename: doc.FileName,
			FileData: "data:application/pdf;base64," + encoded,
		})
	} else {
		parts = append(parts, contentPart{
			Type:     "input_image",
			ImageURL: "data:" + doc.MIMEType + ";base64," + encoded,
		})
	}
	return parts
}

func (c *client) ScanStructure(ctx context.Context, doc Document) ([]map[string]any, error) {
	instruction := scanInstruction(doc)
	obj, err := c.generateJSON(ctx, scanSystemPrompt, documentParts(instruction, doc), "equipment_scan", ScanSchema())
	if err != nil {
		return nil, fmt.Errorf("scan structure: %w", err)
	}

	items, _ := obj["equipments"].([]any)
	results := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			results = append(results, m)
		}
	}
	return results, nil
}

func (c *client) ExtractDetails(ctx context.Context, doc Document, targetTag, pageContext string) (map[string]any, error) {
	instruction := detailInstruction(targetTag, pageContext)
	obj, err := c.generateJSON(ctx, detailSystemPrompt, documentParts(instruction, doc), "equipment_detail", DetailSchema())
	if err != nil {
		return nil, fmt.Errorf("extract details for %q: %w", targetTag, err)
	}
	return obj, nil
}

func (c *client) LookupPrices(ctx context.Context, materialNames []string) (map[string]float64, error) {
	if len(materialNames) == 0 {
		return map[string]float64{}, nil
	}

	user := priceInstruction(materialNames)
	obj, err := c.generateJSON(ctx, priceSystemPrompt, user, "material_prices", PriceSchema())
	if err != nil {
		return nil, fmt.Errorf("lookup prices: %w", err)
	}

	prices := make(map[string]float64)
	items, _ := obj["prices"].([]any)
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["material"].(string)
		price, _ := m["pricePerKg"].(float64)
		if strings.TrimSpace(name) != "" && price > 0 {
			prices[name] = price
		}
	}
	return prices, nil
}
