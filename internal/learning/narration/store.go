package narration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/gcp"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

// ErrNotFound is returned by Store.Open for unknown or invalid names.
var ErrNotFound = errors.New("narration file not found")

type Info struct {
	Size        int64
	ContentType string
}

// Store persists narration files under slash-separated names such as
// "narration/abc_def.mp3".
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
}

// CleanName validates a store name, rejecting absolute paths and any name
// that escapes the store root.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || strings.HasPrefix(name, "/") {
		return "", ErrNotFound
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrNotFound
	}
	return clean, nil
}

// LocalStore keeps files in a directory on disk.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte, _ string) error {
	p, err := s.path(name)
	if err != nil {
		return fmt.Errorf("invalid name %q", name)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, Info, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, Info{}, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Info{}, ErrNotFound
	}
	if err != nil {
		return nil, Info{}, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Info{}, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, Info{}, ErrNotFound
	}
	return f, Info{Size: st.Size(), ContentType: contentType(name)}, nil
}

// GCSStore keeps files in a Cloud Storage bucket, one object per name.
type GCSStore struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewGCSStore(log *logger.Logger, bucket gcp.BucketService) *GCSStore {
	return &GCSStore{log: log.With("store", "gcs", "bucket", bucket.Bucket()), bucket: bucket}
}

func (s *GCSStore) Save(ctx context.Context, name string, data []byte, _ string) error {
	clean, err := CleanName(name)
	if err != nil {
		return fmt.Errorf("invalid name %q", name)
	}
	return s.bucket.UploadFile(dbctx.Context{Ctx: ctx}, clean, bytes.NewReader(data))
}

func (s *GCSStore) Open(ctx context.Context, name string) (io.ReadCloser, Info, error) {
	clean, err := CleanName(name)
	if err != nil {
		return nil, Info{}, err
	}
	rc, attrs, err := s.bucket.OpenFile(ctx, clean)
	if errors.Is(err, gcp.ErrObjectNotFound) {
		return nil, Info{}, ErrNotFound
	}
	if err != nil {
		return nil, Info{}, err
	}
	info := Info{ContentType: contentType(name)}
	if attrs != nil {
		info.Size = attrs.Size
		if attrs.ContentType != "" {
			info.ContentType = attrs.ContentType
		}
	}
	return rc, info, nil
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
