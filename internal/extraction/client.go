// Package extraction talks to the document analysis server.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/nota/internal/model"
	"github.com/google/uuid"
)

// Endpoint paths on the analysis server.
const (
	UploadPath = "/upload"
	SavePath   = "/salvar-dados"

	// UploadField is the multipart form field that carries the document.
	UploadField = "pdf"

	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-ID"
)

const (
	defaultTimeout = 120 * time.Second
	maxBodyBytes   = 16 << 20
)

// ProgressFunc returns a writer that observes upload bytes for a body of the
// given size. It may return nil to disable tracking for that request.
type ProgressFunc func(size int64, description string) io.Writer

// Client issues analysis and commit requests. It holds no workflow state;
// callers decide when a request may be issued.
type Client struct {
	httpClient *http.Client
	progress   ProgressFunc
	baseURL    string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client given to WithHTTPClient
// is copied rather than modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithProgress reports upload progress for analysis requests.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) {
		c.progress = fn
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// errorBody captures both spellings of the error field used by the server.
type errorBody struct {
	Error string `json:"error"`
	Erro  string `json:"erro"`
}

func (e errorBody) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Erro
}

// Analyze uploads doc and returns the server's extraction result.
func (c *Client) Analyze(ctx context.Context, doc model.Document) (*model.ExtractionResult, error) {
	body, contentType, err := buildUpload(doc)
	if err != nil {
		return nil, &Failure{
			Op:      OpAnalyze,
			Message: fmt.Sprintf("Could not read %s: %v", doc.Name, err),
			Err:     err,
		}
	}

	var reader io.Reader = bytes.NewReader(body)
	if c.progress != nil {
		if w := c.progress(int64(len(body)), doc.Name); w != nil {
			reader = io.TeeReader(reader, w)
		}
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, reader)
	if err != nil {
		return nil, &Failure{Op: OpAnalyze, Message: "Could not build the upload request", Err: err, RequestID: requestID}
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	slog.Debug("Submitting document for analysis",
		"file", doc.Name,
		"size", doc.Size,
		"request_id", requestID)

	status, data, err := c.do(req)
	if err != nil {
		return nil, &Failure{
			Op:        OpAnalyze,
			Message:   "Error processing file: " + err.Error(),
			Err:       fmt.Errorf("%w: %w", ErrTransport, err),
			RequestID: requestID,
		}
	}

	var errResp errorBody
	_ = json.Unmarshal(data, &errResp)

	if status < 200 || status > 299 {
		msg := errResp.message()
		if msg == "" {
			msg = fmt.Sprintf("The server could not analyze the document (HTTP %d)", status)
		}
		return nil, &Failure{Op: OpAnalyze, Message: msg, Err: ErrServer, StatusCode: status, RequestID: requestID}
	}
	if msg := errResp.message(); msg != "" {
		return nil, &Failure{Op: OpAnalyze, Message: msg, Err: ErrServer, StatusCode: status, RequestID: requestID}
	}

	result, err := model.ParseExtractionResult(data)
	if err != nil {
		return nil, &Failure{
			Op:         OpAnalyze,
			Message:    "The server returned an unreadable analysis result",
			Err:        fmt.Errorf("%w: %w", ErrServer, err),
			StatusCode: status,
			RequestID:  requestID,
		}
	}

	return result, nil
}

// Commit submits the complete extraction result for persistence.
func (c *Client) Commit(ctx context.Context, result *model.ExtractionResult) (*model.CommitOutcome, error) {
	if result == nil {
		return nil, &Failure{Op: OpCommit, Message: "There is no analysis result to save", Err: ErrServer}
	}

	payload, err := result.Payload()
	if err != nil {
		return nil, &Failure{Op: OpCommit, Message: "Could not encode the analysis result", Err: err}
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SavePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &Failure{Op: OpCommit, Message: "Could not build the save request", Err: err, RequestID: requestID}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	slog.Debug("Committing extraction result",
		"invoice", result.InvoiceNumber(),
		"request_id", requestID)

	status, data, err := c.do(req)
	if err != nil {
		return nil, &Failure{
			Op:        OpCommit,
			Message:   "Error saving data: " + err.Error(),
			Err:       fmt.Errorf("%w: %w", ErrTransport, err),
			RequestID: requestID,
		}
	}

	var outcome model.CommitOutcome
	decodeErr := json.Unmarshal(data, &outcome)

	switch {
	case status == http.StatusConflict:
		msg := outcome.Error
		if msg == "" {
			msg = "This invoice is already on file"
		}
		return nil, &Failure{Op: OpCommit, Message: msg, Err: ErrDuplicateInvoice, StatusCode: status, RequestID: requestID}

	case status < 200 || status > 299:
		msg := outcome.Error
		if msg == "" {
			msg = fmt.Sprintf("The server could not save the data (HTTP %d)", status)
		}
		return nil, &Failure{Op: OpCommit, Message: msg, Err: ErrServer, StatusCode: status, RequestID: requestID}

	case decodeErr != nil:
		return nil, &Failure{
			Op:         OpCommit,
			Message:    "The server returned an unreadable save response",
			Err:        fmt.Errorf("%w: %w", ErrServer, decodeErr),
			StatusCode: status,
			RequestID:  requestID,
		}

	case !outcome.Success:
		msg := outcome.Error
		if msg == "" {
			msg = "The server did not confirm the save"
		}
		return nil, &Failure{Op: OpCommit, Message: msg, Err: ErrServer, StatusCode: status, RequestID: requestID}

	case outcome.Result.Failed():
		msg := outcome.Result.Error
		if msg == "" {
			msg = "The server reported a failed database write"
		}
		return nil, &Failure{Op: OpCommit, Message: msg, Err: ErrServer, StatusCode: status, RequestID: requestID}
	}

	if outcome.Message == "" {
		outcome.Message = "Data saved successfully"
	}

	return &outcome, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// buildUpload encodes doc as a multipart body with the file in UploadField.
func buildUpload(doc model.Document) ([]byte, string, error) {
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadField, doc.Name))
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return buf.Bytes(), mw.FormDataContentType(), nil
}
