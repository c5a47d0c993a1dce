// Package client is the Go SDK for the famscope consultation API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Version is the SDK version reported in the User-Agent.
const Version = "0.1.0"

const maxErrorBodyBytes = 64 << 10

// Client calls a famscope server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New builds a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("famscope: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("famscope: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "famscope-go/" + Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("famscope: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNotFound reports whether the subject had no family records.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsValidation reports whether the request was rejected before lookup.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// Summary is the consultation response.
type Summary struct {
	DNI     string `json:"dni"`
	Nombres string `json:"nombres"`
	Estado  string `json:"estado"`
	Archivo struct {
		URL string `json:"url"`
	} `json:"archivo"`
}

// Consultar resolves the subject's identity and download link for dni.
func (c *Client) Consultar(ctx context.Context, dni string) (*Summary, error) {
	req, err := c.newRequest(ctx, "/consultar-arbol", dni)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("famscope: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var out Summary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("famscope: decoding response: %w", err)
	}
	return &out, nil
}

// DescargarPDF downloads the report for dni, writing the document to w and
// returning the suggested filename.  Server-side redirects to stored
// artifacts are followed transparently.
func (c *Client) DescargarPDF(ctx context.Context, dni string, w io.Writer) (string, error) {
	req, err := c.newRequest(ctx, "/descargar-arbol-pdf", dni)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("famscope: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("famscope: reading document: %w", err)
	}
	return filenameFromDisposition(resp.Header.Get("Content-Disposition"), dni), nil
}

func (c *Client) newRequest(ctx context.Context, path, dni string) (*http.Request, error) {
	u := fmt.Sprintf("%s%s?dni=%s", c.baseURL, path, url.QueryEscape(dni))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("famscope: building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func filenameFromDisposition(disposition, dni string) string {
	const marker = "filename="
	if i := strings.Index(disposition, marker); i >= 0 {
		name := strings.Trim(disposition[i+len(marker):], `"`)
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("Arbol_%s.pdf", dni)
}
