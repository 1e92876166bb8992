package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// imagePart opens the optional "image" file part of a multipart form. A
// missing part is not an error; creation without an image skips the upload
// phase entirely.
func imagePart(c *gin.Context) (multipart.File, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return header.Open()
}

// readerOrNil keeps a nil *file* from becoming a non-nil io.Reader
// interface value.
func readerOrNil(f multipart.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
