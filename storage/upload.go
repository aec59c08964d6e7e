package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/teris-io/shortid"
)

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ErrUnsupportedFile is returned for uploads that are not images.
type ErrUnsupportedFile struct {
	Filename string
}

func (e *ErrUnsupportedFile) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Filename)
}

// Uploader stores uploaded images on fs and hands back the public path of each file.
type Uploader struct {
	fs afero.Fs
}

// NewDiskUploader stores files below dir on the local disk.
func NewDiskUploader(dir string) (*Uploader, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return NewUploader(afero.NewBasePathFs(osFs, dir)), nil
}

func NewUploader(fs afero.Fs) *Uploader {
	return &Uploader{fs: fs}
}

func (u *Uploader) Fs() afero.Fs {
	return u.fs
}

// Save writes the uploaded file under a generated name and returns its public path.
func (u *Uploader) Save(header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", &ErrUnsupportedFile{Filename: header.Filename}
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	id, err := shortid.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	name := "/" + id + ext

	dst, err := u.fs.Create(name)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = u.fs.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	logrus.WithField("file", name).Debug("stored upload")
	return PublicPrefix + name, nil
}

// SaveAll stores every file, removing the ones already written if one fails.
func (u *Uploader) SaveAll(headers []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(headers))
	for _, h := range headers {
		p, err := u.Save(h)
		if err != nil {
			u.Remove(paths...)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Remove deletes previously saved files given their public paths.
func (u *Uploader) Remove(paths ...string) {
	for _, p := range paths {
		name := strings.TrimPrefix(p, PublicPrefix)
		if err := u.fs.Remove(name); err != nil {
			logrus.Warnf("Remove: failed to delete upload %s err = %v", name, err)
		}
	}
}
