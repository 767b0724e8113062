package sniffer

import (
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, "image/png"},
		{"gif87a", []byte("GIF87a......"), "image/gif"},
		{"gif89a", []byte("GIF89a......"), "image/gif"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), "image/webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.MIME)
		})
	}
}

func TestDetectHeadRejects(t *testing.T) {
	cases := []struct {
		name string
		head []byte
	}{
		{"empty", nil},
		{"plain text", []byte("hello world this is not an image")},
		{"pdf", []byte("%PDF-1.7 ...")},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVE")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DetectHead(tc.head)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestMimeTypeFromHeader(t *testing.T) {
	header := textproto.MIMEHeader{}
	assert.Equal(t, "", MimeTypeFromHeader(header))

	header.Set("Content-Type", "IMAGE/PNG; charset=binary")
	assert.Equal(t, "image/png", MimeTypeFromHeader(header))

	header.Set("Content-Type", "not a mime")
	assert.Equal(t, "", MimeTypeFromHeader(header))
}
