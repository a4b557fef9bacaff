package persist

import (
	"encoding/base64"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"
)

// FileStorage stores each key in its own file under a directory of a billy
// filesystem. Writes go to a temporary file that is renamed into place, so a
// reader never observes a half-written order.
type FileStorage struct {
	fs  billy.Filesystem
	dir string
}

// NewFileStorage uses dir on fs. The directory is created on first write.
func NewFileStorage(fs billy.Filesystem, dir string) *FileStorage {
	return &FileStorage{fs: fs, dir: dir}
}

// NewLocalFileStorage stores files under root on the local disk.
func NewLocalFileStorage(root string) *FileStorage {
	return NewFileStorage(osfs.New(root), "")
}

// NewMemoryFileStorage stores files on an in-memory filesystem.
func NewMemoryFileStorage() *FileStorage {
	return NewFileStorage(memfs.New(), "")
}

func (s *FileStorage) Read(key string) (string, bool, error) {
	data, err := util.ReadFile(s.fs, s.filename(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.WithContext(
			errors.Wrap(err, errors.CodeDatabase, "failed to read persisted tabs"),
			"key", key,
		)
	}
	return string(data), true, nil
}

func (s *FileStorage) Write(key, value string) error {
	if s.dir != "" {
		if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeDatabase, "failed to create storage directory"),
				"dir", s.dir,
			)
		}
	}

	tmpDir := s.dir
	if tmpDir == "" {
		tmpDir = "."
	}
	tmp, err := util.TempFile(s.fs, tmpDir, ".tabs-")
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to create temporary file")
	}
	if _, err := tmp.Write([]byte(value)); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return errors.WithContext(
			errors.Wrap(err, errors.CodeDatabase, "failed to write persisted tabs"),
			"key", key,
		)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return errors.Wrap(err, errors.CodeDatabase, "failed to close temporary file")
	}

	if err := s.fs.Rename(tmp.Name(), s.filename(key)); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return errors.WithContext(
			errors.Wrap(err, errors.CodeDatabase, "failed to persist tabs"),
			"key", key,
		)
	}
	return nil
}

// Filesystem returns the underlying billy filesystem.
func (s *FileStorage) Filesystem() billy.Filesystem {
	return s.fs
}

// filename maps a storage key onto a safe file name. Keys contain ':' and may
// contain any character the namespace allows.
func (s *FileStorage) filename(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key)) + ".json"
	if s.dir == "" {
		return name
	}
	return path.Join(strings.TrimSuffix(s.dir, "/"), name)
}
