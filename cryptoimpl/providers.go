// Package cryptoimpl supplies the default concrete implementations of the
// injected primitives declared in package primitives (spec §6, §4.7 of
// SPEC_FULL.md). The handshake engine calls every primitive through
// primitives.Providers and imports this package only for WithDefaults,
// the same dependency-injection shape the teacher uses for circuit.NewHop
// (caller-supplied cipher.Stream/hash.Hash instead of hardcoded
// AES-CTR/SHA-1).
package cryptoimpl

import "github.com/cvsouth/srd-go/primitives"

// Default returns the standard Providers set: math/big DH, crypto/hmac
// HMAC-SHA256, crypto/aes CBC, golang.org/x/crypto/chacha20 XChaCha20,
// and crypto/rand randomness. ChannelBinding is left nil — callers that
// want CBT supply their own via ChannelBindingFromTLS or an equivalent.
func Default() primitives.Providers {
	return primitives.Providers{
		DHGroup:       GenerateGroup,
		DHGenerate:    DHGenerate,
		DHAgree:       DHAgree,
		HMACSHA256:    HMACSHA256,
		AESCBCEncrypt: AESCBCEncrypt,
		AESCBCDecrypt: AESCBCDecrypt,
		XChaCha20:     XChaCha20XOR,
		RandomBytes:   RandomBytes,
	}
}

// WithDefaults fills any nil field of p from Default(), mirroring the
// nil-logger-defaults-to-slog.Default() convention used throughout the
// teacher (link.Handshake, circuit.Create). Package handshake calls this
// to complete a caller-supplied, possibly partial, Providers.
func WithDefaults(p primitives.Providers) primitives.Providers {
	d := Default()
	if p.DHGroup == nil {
		p.DHGroup = d.DHGroup
	}
	if p.DHGenerate == nil {
		p.DHGenerate = d.DHGenerate
	}
	if p.DHAgree == nil {
		p.DHAgree = d.DHAgree
	}
	if p.HMACSHA256 == nil {
		p.HMACSHA256 = d.HMACSHA256
	}
	if p.AESCBCEncrypt == nil {
		p.AESCBCEncrypt = d.AESCBCEncrypt
	}
	if p.AESCBCDecrypt == nil {
		p.AESCBCDecrypt = d.AESCBCDecrypt
	}
	if p.XChaCha20 == nil {
		p.XChaCha20 = d.XChaCha20
	}
	if p.RandomBytes == nil {
		p.RandomBytes = d.RandomBytes
	}
	return p
}
