package descrypt_test

import (
	"bytes"
	"crypto/des"
	"testing"

	"github.com/openboardview/xzzpcbgo/descrypt"
)

// encryptECB is the test-side mirror of descrypt's internal ecbDecrypt,
// used only to build known-good ciphertext fixtures.
func encryptECB(t *testing.T, plaintext []byte) []byte {
	t.Helper()
	block, err := des.NewCipher(descrypt.Key)
	if err != nil {
		t.Fatalf("des.NewCipher: %v", err)
	}
	bs := block.BlockSize()
	if len(plaintext)%bs != 0 {
		t.Fatalf("plaintext length %d is not a multiple of block size %d", len(plaintext), bs)
	}
	out := make([]byte, len(plaintext))
	src, dst := plaintext, out
	for len(src) > 0 {
		block.Encrypt(dst[:bs], src[:bs])
		src = src[bs:]
		dst = dst[bs:]
	}
	return out
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	if padLen == 0 {
		padLen = blockSize
	}
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

func TestDecrypt_EmptyCiphertext(t *testing.T) {
	out, err := descrypt.Decrypt(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %v, want empty plaintext", out)
	}
}

func TestDecrypt_RoundTrip(t *testing.T) {
	plain := []byte("group_name=R12;")
	padded := pkcs7Pad(plain, des.BlockSize)
	ciphertext := encryptECB(t, padded)

	out, err := descrypt.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatalf("got %q, want %q", out, plain)
	}
}

func TestDecrypt_BadLength(t *testing.T) {
	_, err := descrypt.Decrypt(make([]byte, 7))
	de, ok := err.(*descrypt.DecryptError)
	if !ok {
		t.Fatalf("expected *descrypt.DecryptError, got %T (%v)", err, err)
	}
	if de.Kind != descrypt.FailureBadLength {
		t.Fatalf("got kind %q, want %q", de.Kind, descrypt.FailureBadLength)
	}
}

func TestDecrypt_BadPadding(t *testing.T) {
	// A single block that decrypts to something whose pad byte is zero is
	// invalid PKCS#7 padding.
	zeroPad := make([]byte, des.BlockSize)
	ciphertext := encryptECB(t, zeroPad)

	_, err := descrypt.Decrypt(ciphertext)
	de, ok := err.(*descrypt.DecryptError)
	if !ok {
		t.Fatalf("expected *descrypt.DecryptError, got %T (%v)", err, err)
	}
	if de.Kind != descrypt.FailureBadPadding {
		t.Fatalf("got kind %q, want %q", de.Kind, descrypt.FailureBadPadding)
	}
}

func TestDecrypt_MultiBlock(t *testing.T) {
	plain := []byte("this message spans more than a single eight byte block of plaintext")
	padded := pkcs7Pad(plain, des.BlockSize)
	ciphertext := encryptECB(t, padded)

	out, err := descrypt.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatalf("got %q, want %q", out, plain)
	}
}
