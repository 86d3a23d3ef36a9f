package attachment

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n" + "restofpng")
	jpegHeader = []byte("\xFF\xD8\xFF\xE0" + "restofjpeg")
)

func TestSniffMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngHeader, "image/png"},
		{"jpeg", jpegHeader, "image/jpeg"},
		{"gif", []byte("GIF89a..............."), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"unknown", []byte("не un'immagine davvero"), "image/jpeg"},
		{"short", []byte("abc"), "image/jpeg"},
	}
	for _, tc := range cases {
		if got := sniffMIME(tc.data); got != tc.want {
			t.Errorf("%s: sniffMIME = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFromBytesRejectsEmpty(t *testing.T) {
	if _, err := FromBytes(nil); err == nil {
		t.Fatalf("FromBytes accepted empty data")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	img, err := FromBytes(pngHeader)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	uri := img.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("DataURI prefix = %q", uri[:30])
	}

	parsed, err := FromDataURI(uri)
	if err != nil {
		t.Fatalf("FromDataURI: %v", err)
	}
	if !bytes.Equal(parsed.Bytes(), pngHeader) {
		t.Fatalf("round trip changed image bytes")
	}
	if parsed.MIMEType() != "image/png" {
		t.Fatalf("round trip MIME = %q", parsed.MIMEType())
	}
}

func TestFromDataURIRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"data:image/png;base64,",
		"data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("ciao")),
		"data:image/png;base64,!!!not-base64!!!",
		"https://example.com/foto.png",
	}
	for _, uri := range cases {
		if _, err := FromDataURI(uri); err == nil {
			t.Errorf("FromDataURI(%q) accepted invalid input", uri)
		}
	}
}
