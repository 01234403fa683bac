package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartCtx(t *testing.T, body io.Reader, contentType string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestOpenFormFile_ReadsUpload(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "pack.zip")
	require.NoError(t, err)
	_, err = part.Write([]byte("zip-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c := multipartCtx(t, &buf, w.FormDataContentType())

	f, err := openFormFile(c, "file")
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.close()

	assert.Equal(t, "pack.zip", f.name)
	content, err := io.ReadAll(f.reader)
	require.NoError(t, err)
	assert.Equal(t, "zip-bytes", string(content))
}

func TestOpenFormFile_MissingFieldIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Icon Pack"))
	require.NoError(t, w.Close())

	c := multipartCtx(t, &buf, w.FormDataContentType())

	f, err := openFormFile(c, "file")
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestOpenFormFile_MalformedBodyRejected(t *testing.T) {
	c := multipartCtx(t, strings.NewReader("not a multipart payload"),
		"multipart/form-data; boundary=broken")

	f, err := openFormFile(c, "file")
	assert.Nil(t, f)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
