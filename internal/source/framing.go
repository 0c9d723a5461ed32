package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
)

// FramePrefix marks a camera frame message. The rest of the message is a
// base64 encoded JPEG.
const FramePrefix = "basler:"

// DefaultJPEGQuality is used by EncodeFrame.
const DefaultJPEGQuality = 90

// IsFrame reports whether msg carries a camera frame.
func IsFrame(msg []byte) bool {
	return bytes.HasPrefix(msg, []byte(FramePrefix))
}

// EncodeFrame renders img as a frame message.
func EncodeFrame(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	out := make([]byte, len(FramePrefix)+base64.StdEncoding.EncodedLen(jpg.Len()))
	copy(out, FramePrefix)
	base64.StdEncoding.Encode(out[len(FramePrefix):], jpg.Bytes())
	return out, nil
}

// DecodeFrame parses a frame message. Messages without the prefix are
// rejected with ErrBadFrame.
func DecodeFrame(msg []byte) (image.Image, error) {
	if !IsFrame(msg) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrBadFrame, FramePrefix)
	}
	payload := msg[len(FramePrefix):]
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(raw, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrBadFrame, err)
	}
	img, _, err := DecodeBytes(raw[:n])
	return img, err
}
