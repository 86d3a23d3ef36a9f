// Package attachment handles the images citizens attach to chat turns
// and risk assessments. Images are kept as raw bytes and shipped to
// the model as base64 data URIs; no decoding or re-encoding happens.
package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxDownloadTimeout = 30 * time.Second

var dataURIPattern = regexp.MustCompile(`^data:(image/[a-z+.-]+);base64,(.+)$`)

// Image is an immutable image attachment with a sniffed MIME type.
type Image struct {
	data []byte
	mime string
}

// FromBytes wraps raw image bytes, sniffing the MIME type from the
// content signature.
func FromBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	return &Image{data: data, mime: sniffMIME(data)}, nil
}

// FromFile reads an image attachment from a local file.
func FromFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return FromBytes(data)
}

// FromURL downloads an image attachment.
func FromURL(ctx context.Context, url string) (*Image, error) {
	client := resty.New().SetTimeout(maxDownloadTimeout)
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("download image: unexpected status %d", resp.StatusCode())
	}
	return FromBytes(resp.Body())
}

// FromDataURI parses a base64 image data URI, as received from the
// HTTP API.
func FromDataURI(uri string) (*Image, error) {
	matches := dataURIPattern.FindStringSubmatch(uri)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid data URI: expected data:image/...;base64,...")
	}
	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	return &Image{data: data, mime: matches[1]}, nil
}

// Bytes returns the raw image bytes.
func (i *Image) Bytes() []byte { return i.data }

// MIMEType returns the sniffed or declared MIME type.
func (i *Image) MIMEType() string { return i.mime }

// DataURI returns the base64 data URI representation sent to the
// vision-language model.
func (i *Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.mime, base64.StdEncoding.EncodeToString(i.data))
}

// sniffMIME determines the MIME type from well-known content
// signatures, defaulting to JPEG for unknown data.
func sniffMIME(data []byte) string {
	if len(data) < 12 {
		return "image/jpeg"
	}
	switch {
	case strings.HasPrefix(string(data), "\xFF\xD8\xFF"):
		return "image/jpeg"
	case strings.HasPrefix(string(data), "\x89PNG\r\n\x1a\n"):
		return "image/png"
	case strings.HasPrefix(string(data), "GIF87a"), strings.HasPrefix(string(data), "GIF89a"):
		return "image/gif"
	case strings.HasPrefix(string(data), "RIFF") && string(data[8:12]) == "WEBP":
		return "image/webp"
	}
	return "image/jpeg"
}
