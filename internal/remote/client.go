package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docdesk/internal/config"
	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Client implements RemoteStore over the document HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ wsSvc.RemoteStore = (*Client)(nil)

// NewClient creates a remote store client with the default timeout.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return NewClientWithConfig(baseURL, config.DefaultHTTPTimeout, logger)
}

// NewClientWithConfig creates a remote store client with a custom timeout.
func NewClientWithConfig(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// errorResponse is the failure body every write endpoint returns
type errorResponse struct {
	Error string `json:"error"`
}

type contentBody struct {
	Content string `json:"content"`
}

type moveBody struct {
	FolderID *string `json:"folder_id"`
}

type nameBody struct {
	Name string `json:"name"`
}

type renameResponse struct {
	NewPath string `json:"new_path"`
}

type foldersResponse struct {
	Folders []models.Folder `json:"folders"`
}

type toggleResponse struct {
	Expanded bool `json:"expanded"`
}

type previewBody struct {
	Content string         `json:"content"`
	Type    models.DocType `json:"type"`
}

type previewResponse struct {
	HTML string `json:"html"`
}

func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.do(ctx, "list documents", http.MethodGet, "/api/documents", nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, path string) (string, error) {
	var out contentBody
	if err := c.do(ctx, "get document", http.MethodGet, documentPath(path, ""), nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) PutDocument(ctx context.Context, path, content string) error {
	return c.do(ctx, "save document", http.MethodPost, documentPath(path, ""), contentBody{Content: content}, nil)
}

func (c *Client) CreateDocument(ctx context.Context, name, content string) error {
	return c.do(ctx, "create document", http.MethodPost, documentPath(name, ""), contentBody{Content: content}, nil)
}

func (c *Client) DeleteDocument(ctx context.Context, path string) error {
	return c.do(ctx, "delete document", http.MethodDelete, documentPath(path, ""), nil, nil)
}

func (c *Client) MoveDocument(ctx context.Context, path string, folderID *string) error {
	return c.do(ctx, "move document", http.MethodPost, documentPath(path, "move"), moveBody{FolderID: folderID}, nil)
}

func (c *Client) RenameDocument(ctx context.Context, path, name string) (string, error) {
	var out renameResponse
	if err := c.do(ctx, "rename document", http.MethodPost, documentPath(path, "rename"), nameBody{Name: name}, &out); err != nil {
		return "", err
	}
	if out.NewPath == "" {
		return "", &domain.RemoteError{Op: "rename document", Status: http.StatusOK, Err: fmt.Errorf("response missing new_path")}
	}
	return out.NewPath, nil
}

func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var out foldersResponse
	if err := c.do(ctx, "list folders", http.MethodGet, "/api/folders", nil, &out); err != nil {
		return nil, err
	}
	if out.Folders == nil {
		out.Folders = []models.Folder{}
	}
	return out.Folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, req *wsSvc.CreateFolderRequest) (*models.Folder, error) {
	var folder models.Folder
	if err := c.do(ctx, "create folder", http.MethodPost, "/api/folders", req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) ToggleFolder(ctx context.Context, id string) (bool, error) {
	var out toggleResponse
	if err := c.do(ctx, "toggle folder", http.MethodPost, folderPath(id, "toggle"), nil, &out); err != nil {
		return false, err
	}
	return out.Expanded, nil
}

func (c *Client) RenameFolder(ctx context.Context, id, name string) error {
	return c.do(ctx, "rename folder", http.MethodPost, folderPath(id, "rename"), nameBody{Name: name}, nil)
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, "delete folder", http.MethodDelete, folderPath(id, ""), nil, nil)
}

func (c *Client) RenderPreview(ctx context.Context, content string, docType models.DocType) (string, error) {
	var out previewResponse
	if err := c.do(ctx, "render preview", http.MethodPost, "/api/preview", previewBody{Content: content, Type: docType}, &out); err != nil {
		return "", err
	}
	return out.HTML, nil
}

// do issues one JSON request. Non-2xx responses and transport failures are
// returned as *domain.RemoteError; out may be nil when the body is ignored.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed",
			"op", op,
			"request_id", requestID,
			"error", err,
		)
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		_ = json.Unmarshal(data, &errBody) // non-JSON bodies leave Message empty
		c.logger.Warn("remote request rejected",
			"op", op,
			"request_id", requestID,
			"status", resp.StatusCode,
			"error", errBody.Error,
		)
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}

// documentPath escapes each segment of a storage path so nested paths survive.
func documentPath(path, action string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	p := "/api/documents/" + strings.Join(segments, "/")
	if action != "" {
		p += "/" + action
	}
	return p
}

func folderPath(id, action string) string {
	p := "/api/folders/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}
