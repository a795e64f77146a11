package handlers

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// readUploadedFile pulls a multipart file field into memory. ok is false
// when the field is absent.
func readUploadedFile(c *gin.Context, field string) (data []byte, filename, contentType string, ok bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", "", false
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", false
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", false
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), true
}

// decodeBase64Image decodes an image sent inline, accepting both a bare
// base64 string and a full data URL ("data:image/png;base64,....").
func decodeBase64Image(value string) (data []byte, contentType string, err error) {
	encoded := value
	contentType = "image/jpeg"
	if idx := strings.Index(value, ","); idx >= 0 {
		header := value[:idx]
		encoded = value[idx+1:]
		if i := strings.Index(header, "image/"); i >= 0 {
			contentType = strings.SplitN(header[i:], ";", 2)[0]
		}
	}
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
