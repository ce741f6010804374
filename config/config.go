// Package config builds a handshake.Policy from viper-bound flags, the
// way the teacher's cmd package turns rootCmd's persistent flags into
// server configuration (see rootCmdLoadConfig in the FDO server example
// this is grounded on).
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/viper"

	"github.com/cvsouth/srd-go/handshake"
	"github.com/cvsouth/srd-go/wire"
)

// PolicyFromViper reads key-size, ciphers, require-cbt, and an optional
// hex-encoded cbt value out of v and returns the resulting Policy.
func PolicyFromViper(v *viper.Viper) (handshake.Policy, error) {
	keySize := uint16(v.GetInt("key-size"))
	if wire.KeySizeBytes(keySize) == 0 {
		return handshake.Policy{}, fmt.Errorf("config: --key-size must be 256, 512, or 1024, got %d", keySize)
	}

	var ciphers uint32
	for _, name := range v.GetStringSlice("ciphers") {
		switch name {
		case "aes256cbc":
			ciphers |= wire.CipherAES256CBC
		case "xchacha20":
			ciphers |= wire.CipherXChaCha20
		default:
			return handshake.Policy{}, fmt.Errorf("config: unknown cipher suite %q (want aes256cbc or xchacha20)", name)
		}
	}
	if ciphers == 0 {
		return handshake.Policy{}, fmt.Errorf("config: --ciphers must name at least one suite")
	}

	p := handshake.Policy{
		KeySize:    keySize,
		Ciphers:    ciphers,
		RequireCBT: v.GetBool("require-cbt"),
	}

	if s := v.GetString("cbt"); s != "" {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return handshake.Policy{}, fmt.Errorf("config: decoding --cbt: %w", err)
		}
		if len(raw) != wire.CBTSize {
			return handshake.Policy{}, fmt.Errorf("config: --cbt must be %d bytes, got %d", wire.CBTSize, len(raw))
		}
		var cbt [32]byte
		copy(cbt[:], raw)
		p.CBT = &cbt
	}
	if p.RequireCBT && p.CBT == nil {
		return handshake.Policy{}, fmt.Errorf("config: --require-cbt set without --cbt (or transport-derived binding)")
	}

	return p, nil
}
