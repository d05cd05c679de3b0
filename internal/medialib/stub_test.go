package medialib

import (
	"context"
	"fmt"
	"sync"
)

// stubContent is an in-memory ContentAPI for tests.
type stubContent struct {
	mu        sync.Mutex
	items     map[string][]MediaItem
	folders   map[string]*FolderListResult
	listErr   error
	listCalls []string
}

func newStubContent() *stubContent {
	return &stubContent{
		items:   make(map[string][]MediaItem),
		folders: make(map[string]*FolderListResult),
	}
}

func (s *stubContent) List(ctx context.Context, folderPath string) (*ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, folderPath)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return &ListResult{Items: append([]MediaItem(nil), s.items[folderPath]...)}, nil
}

func (s *stubContent) ListFolders(ctx context.Context, folderPath string) (*FolderListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	if res, ok := s.folders[folderPath]; ok {
		return res, nil
	}
	return &FolderListResult{}, nil
}

// stubAPI is a scriptable MutationAPI. Unset hooks succeed with payloads
// echoing the request.
type stubAPI struct {
	createFolder func(parent, name string) (*CreateFolderResult, error)
	deleteFolder func(path string) error
	renameFolder func(oldPath, newName string) (*RenameFolderResult, error)
	moveFolder   func(src, dst string) error
	upload       func(folder string, f FileUpload) (*UploadResult, error)
	del          func(key string) error
	deleteBulk   func(keys []string) (*BulkDeleteResult, error)
	rename       func(key, newName string) (*FileResult, error)
	move         func(key, target string) (*FileResult, error)
	moveBulk     func(keys []string, target string) (*BulkMoveResult, error)
}

func (s *stubAPI) CreateFolder(ctx context.Context, parentPath, name string) (*CreateFolderResult, error) {
	if s.createFolder != nil {
		return s.createFolder(parentPath, name)
	}
	return &CreateFolderResult{}, nil
}

func (s *stubAPI) DeleteFolder(ctx context.Context, path string) error {
	if s.deleteFolder != nil {
		return s.deleteFolder(path)
	}
	return nil
}

func (s *stubAPI) RenameFolder(ctx context.Context, oldPath, newName string) (*RenameFolderResult, error) {
	if s.renameFolder != nil {
		return s.renameFolder(oldPath, newName)
	}
	return &RenameFolderResult{}, nil
}

func (s *stubAPI) MoveFolder(ctx context.Context, sourcePath, targetPath string) error {
	if s.moveFolder != nil {
		return s.moveFolder(sourcePath, targetPath)
	}
	return nil
}

func (s *stubAPI) Upload(ctx context.Context, folderPath string, file FileUpload) (*UploadResult, error) {
	if s.upload != nil {
		return s.upload(folderPath, file)
	}
	return &UploadResult{
		Key: JoinPath(folderPath, file.Name),
		URL: "https://cdn.example.com/" + JoinPath(folderPath, file.Name),
	}, nil
}

func (s *stubAPI) Delete(ctx context.Context, key string) error {
	if s.del != nil {
		return s.del(key)
	}
	return nil
}

func (s *stubAPI) DeleteBulk(ctx context.Context, keys []string) (*BulkDeleteResult, error) {
	if s.deleteBulk != nil {
		return s.deleteBulk(keys)
	}
	return &BulkDeleteResult{Deleted: len(keys)}, nil
}

func (s *stubAPI) Rename(ctx context.Context, key, newName string) (*FileResult, error) {
	if s.rename != nil {
		return s.rename(key, newName)
	}
	return &FileResult{}, nil
}

func (s *stubAPI) Move(ctx context.Context, key, targetFolder string) (*FileResult, error) {
	if s.move != nil {
		return s.move(key, targetFolder)
	}
	return &FileResult{Key: JoinPath(targetFolder, BaseName(key))}, nil
}

func (s *stubAPI) MoveBulk(ctx context.Context, keys []string, targetFolder string) (*BulkMoveResult, error) {
	if s.moveBulk != nil {
		return s.moveBulk(keys, targetFolder)
	}
	res := &BulkMoveResult{}
	for _, key := range keys {
		res.Results = append(res.Results, MoveItemResult{
			OldKey: key,
			NewKey: JoinPath(targetFolder, BaseName(key)),
		})
	}
	return res, nil
}

var errRemote = fmt.Errorf("network unreachable")
