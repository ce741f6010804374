package cryptoimpl

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// HMACSHA256 implements primitives.HMACFunc, grounded on the teacher's
// ntor.ntorHMAC (crypto/hmac + crypto/sha256).
func HMACSHA256(key, msg []byte) [32]byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AESCBCEncrypt implements primitives.AESCBCFunc. data must already be a
// multiple of aes.BlockSize; the caller (package handshake, via
// suite.PadToBlock) pre-pads.
func AESCBCEncrypt(key [32]byte, iv [16]byte, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("aes-cbc: data length %d not a multiple of block size", len(data))
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes-cbc: new cipher: %w", err)
	}
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(out, data)
	return out, nil
}

// AESCBCDecrypt implements primitives.AESCBCFunc for decryption.
func AESCBCDecrypt(key [32]byte, iv [16]byte, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("aes-cbc: data length %d not a multiple of block size", len(data))
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes-cbc: new cipher: %w", err)
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(out, data)
	return out, nil
}

// XChaCha20XOR implements primitives.XChaCha20Func using the same
// golang.org/x/crypto module the teacher already depends on for
// curve25519 and hkdf.
func XChaCha20XOR(key [32]byte, nonce [24]byte, data []byte) ([]byte, error) {
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("xchacha20: new cipher: %w", err)
	}
	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out, nil
}

// RandomBytes implements primitives.RandomBytesFunc, grounded on the
// teacher's ntor.NewHandshake / circuit.allocateCircID use of
// crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("random bytes: %w", err)
	}
	return buf, nil
}
