package analysis

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ChunkSize is the number of raw bytes handed to the encoder per write.
const ChunkSize = 32 * 1024

// defaultImageMIME is used when the payload does not sniff as an image.
const defaultImageMIME = "image/jpeg"

// EncodeBase64Chunked encodes data with standard base64, feeding the encoder in ordered
// chunks of chunkSize bytes. The result equals base64.StdEncoding.EncodeToString(data).
func EncodeBase64Chunked(data []byte, chunkSize int) string {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}

	var sb strings.Builder
	sb.Grow(base64.StdEncoding.EncodedLen(len(data)))

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	for off := 0; off < len(data); off += chunkSize {
		end := min(off+chunkSize, len(data))
		// strings.Builder writes never fail.
		_, _ = enc.Write(data[off:end])
	}
	_ = enc.Close()

	return sb.String()
}

// ImageMIME sniffs the payload type, keeping image/* and falling back to image/jpeg.
func ImageMIME(data []byte) string {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String()
	}
	return defaultImageMIME
}

// DataURI embeds a base64 payload in a data URI.
func DataURI(mime, payload string) string {
	return "data:" + mime + ";base64," + payload
}
