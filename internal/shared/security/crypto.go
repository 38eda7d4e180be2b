package security

import (
	"bytes"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/zlib"
)

// Zip deflates a wire frame before it goes on the socket.
func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnZip inflates a received wire frame.
func UnZip(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// AesCBCEncrypt encrypts a frame with the per-connection handshake key.
func AesCBCEncrypt(data, key, iv []byte) ([]byte, error) {
	return openssl.AesCBCEncrypt(data, key, iv, openssl.ZEROS_PADDING)
}

// AesCBCDecrypt decrypts a frame with the per-connection handshake key.
func AesCBCDecrypt(data, key, iv []byte) ([]byte, error) {
	return openssl.AesCBCDecrypt(data, key, iv, openssl.ZEROS_PADDING)
}
