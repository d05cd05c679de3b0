package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-media-library/internal/medialib"
)

func TestListDecodesItemsAndSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/media/list", r.URL.Path)
		assert.Equal(t, "docs/2024", r.URL.Query().Get("folder"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"i1","file_name":"a.png","key":"docs/2024/a.png","file_size":42}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok-123")
	res, err := c.List(context.Background(), "docs/2024")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "docs/2024/a.png", res.Items[0].Key)
	assert.Equal(t, int64(42), res.Items[0].FileSize)
}

func TestListFoldersDecodesDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/folders", r.URL.Path)
		assert.Equal(t, "docs", r.URL.Query().Get("parent"))
		w.Write([]byte(`{"folders":["docs/2024"],"details":[{"path":"docs/2024","name":"2024","subfolder_count":2}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	res, err := c.ListFolders(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/2024"}, res.Folders)
	require.Len(t, res.Details, 1)
	assert.Equal(t, 2, res.Details[0].SubfolderCount)
}

func TestErrorPayloadSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"folder already exists"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.CreateFolder(context.Background(), "", "docs")
	require.Error(t, err)
	assert.Equal(t, "folder already exists", err.Error())
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	err := c.Delete(context.Background(), "a.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateFolderSendsJSONBody(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"path":"docs/reports","message":"created"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	res, err := c.CreateFolder(context.Background(), "docs", "Reports")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"parent_path": "docs", "name": "Reports"}, got)
	assert.Equal(t, "docs/reports", res.Path)
}

func TestRenameFolderRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/folders/rename", r.URL.Path)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a/b", in["path"])
		assert.Equal(t, "c", in["new_name"])
		w.Write([]byte(`{"path":"a/c"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	res, err := c.RenameFolder(context.Background(), "a/b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a/c", res.Path)
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/media/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "docs", r.FormValue("folder"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.jpg", header.Filename)

		w.Write([]byte(`{"id":"m1","key":"docs/photo.jpg","url":"https://cdn/docs/photo.jpg"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	res, err := c.Upload(context.Background(), "docs", medialib.FileUpload{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.ID)
	assert.Equal(t, "docs/photo.jpg", res.Key)
}

func TestBulkMoveDecodesPerItemResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/media/move-bulk", r.URL.Path)
		w.Write([]byte(`{"results":[{"old_key":"a.png","new_key":"docs/a.png","url":"u"},{"old_key":"b.png","error":"copy failed"}],"error_count":1}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	res, err := c.MoveBulk(context.Background(), []string{"a.png", "b.png"}, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "docs/a.png", res.Results[0].NewKey)
	assert.Equal(t, "copy failed", res.Results[1].Error)
}
