package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeaders(t *testing.T, field string, names ...string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range names {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field]
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	u := NewUploader(fs)

	p, err := u.Save(fileHeaders(t, "file", "Shoes.PNG")[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/"))
	assert.True(t, strings.HasSuffix(p, ".png"))

	data, err := afero.ReadFile(fs, strings.TrimPrefix(p, "/uploads"))
	require.NoError(t, err)
	assert.Equal(t, "content of Shoes.PNG", string(data))
}

func TestSaveRejectsNonImages(t *testing.T) {
	u := NewUploader(afero.NewMemMapFs())
	_, err := u.Save(fileHeaders(t, "file", "notes.txt")[0])
	var unsupported *ErrUnsupportedFile
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "notes.txt", unsupported.Filename)
}

func TestSaveAllRollsBack(t *testing.T) {
	fs := afero.NewMemMapFs()
	u := NewUploader(fs)

	_, err := u.SaveAll(fileHeaders(t, "images", "a.jpg", "b.jpg", "c.exe"))
	require.Error(t, err)

	files, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSaveAll(t *testing.T) {
	u := NewUploader(afero.NewMemMapFs())
	paths, err := u.SaveAll(fileHeaders(t, "images", "a.jpg", "b.webp"))
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.NotEqual(t, paths[0], paths[1])
}
