package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go-media-library/internal/medialib"
)

// HTTPClient talks to the media library API over JSON and multipart HTTP.
// It implements both the content-fetch and the mutation interfaces of the
// controller. A non-2xx response carrying an `{"error": "..."}` body and a
// transport failure surface the same way, as an error.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient creates a client for the API at baseURL authenticating with
// the given bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload errorPayload
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			return fmt.Errorf("%s", payload.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %v", err)
		}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// List fetches the items of a folder.
func (c *HTTPClient) List(ctx context.Context, folderPath string) (*medialib.ListResult, error) {
	var out medialib.ListResult
	path := "/api/v1/media/list?folder=" + url.QueryEscape(folderPath)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFolders fetches the subfolders of a folder.
func (c *HTTPClient) ListFolders(ctx context.Context, folderPath string) (*medialib.FolderListResult, error) {
	var out medialib.FolderListResult
	path := "/api/v1/folders?parent=" + url.QueryEscape(folderPath)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFolder creates a folder under parentPath.
func (c *HTTPClient) CreateFolder(ctx context.Context, parentPath, name string) (*medialib.CreateFolderResult, error) {
	var out medialib.CreateFolderResult
	in := map[string]string{"parent_path": parentPath, "name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/folders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFolder deletes the folder at path with everything under it.
func (c *HTTPClient) DeleteFolder(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/folders", map[string]string{"path": path}, nil)
}

// RenameFolder renames the folder at oldPath to newName.
func (c *HTTPClient) RenameFolder(ctx context.Context, oldPath, newName string) (*medialib.RenameFolderResult, error) {
	var out medialib.RenameFolderResult
	in := map[string]string{"path": oldPath, "new_name": newName}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/folders/rename", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveFolder moves the folder at sourcePath under targetPath.
func (c *HTTPClient) MoveFolder(ctx context.Context, sourcePath, targetPath string) error {
	in := map[string]string{"source_path": sourcePath, "target_path": targetPath}
	return c.doJSON(ctx, http.MethodPut, "/api/v1/folders/move", in, nil)
}

// Upload sends one file as multipart form data into folderPath.
func (c *HTTPClient) Upload(ctx context.Context, folderPath string, file medialib.FileUpload) (*medialib.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("folder", folderPath); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var out medialib.UploadResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/media/upload", &buf, writer.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a single object by key.
func (c *HTTPClient) Delete(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/media", map[string]string{"key": key}, nil)
}

// DeleteBulk removes several objects with one request.
func (c *HTTPClient) DeleteBulk(ctx context.Context, keys []string) (*medialib.BulkDeleteResult, error) {
	var out medialib.BulkDeleteResult
	in := map[string]interface{}{"keys": keys}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/media/bulk-delete", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rename renames the object at key to newName within its folder.
func (c *HTTPClient) Rename(ctx context.Context, key, newName string) (*medialib.FileResult, error) {
	var out medialib.FileResult
	in := map[string]string{"key": key, "new_name": newName}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/media/rename", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Move moves the object at key into targetFolder.
func (c *HTTPClient) Move(ctx context.Context, key, targetFolder string) (*medialib.FileResult, error) {
	var out medialib.FileResult
	in := map[string]string{"key": key, "target_folder": targetFolder}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/media/move", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveBulk moves several objects into targetFolder with one request.
func (c *HTTPClient) MoveBulk(ctx context.Context, keys []string, targetFolder string) (*medialib.BulkMoveResult, error) {
	var out medialib.BulkMoveResult
	in := map[string]interface{}{"keys": keys, "target_folder": targetFolder}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/media/move-bulk", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
