package services

import (
	"encoding/base64"
	"strings"
)

// ImageUpload is a client-supplied image: base64 data (optionally a data
// URL) plus the filename to store it under.
type ImageUpload struct {
	Data     string `json:"data" validate:"required"`
	Filename string `json:"filename" validate:"required"`
}

// decode strips an optional data-URL prefix and returns the raw bytes and
// content type.
func (u ImageUpload) decode() ([]byte, string, error) {
	data := u.Data
	contentType := "image/png"

	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return nil, "", ErrInvalidImagePayload
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		if idx := strings.Index(meta, ";"); idx >= 0 {
			meta = meta[:idx]
		}
		if meta != "" {
			contentType = meta
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", ErrInvalidImagePayload
	}
	return raw, contentType, nil
}
