package handshake

import (
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/wire"
)

// Policy configures a Session, corresponding to spec §6's Policy struct.
type Policy struct {
	// KeySize is the initiator's requested DH strength, or the
	// responder's minimum accepted strength. Must be 256, 512, or 1024.
	KeySize uint16
	// Ciphers is the bitmask of acceptable cipher suites (wire.CipherAES256CBC
	// and/or wire.CipherXChaCha20).
	Ciphers uint32
	// RequireCBT rejects a handshake lacking channel binding.
	RequireCBT bool
	// CBT is the channel-binding hash to advertise, or nil for none.
	CBT *[32]byte
}

func (p Policy) validate() error {
	if wire.KeySizeBytes(p.KeySize) == 0 {
		return srderr.New(srderr.KindInvalidKeySize, "key size must be 256, 512, or 1024")
	}
	if p.Ciphers&^(wire.CipherAES256CBC|wire.CipherXChaCha20) != 0 {
		return srderr.New(srderr.KindInvalidState, "policy ciphers contains unknown bits")
	}
	if p.Ciphers == 0 {
		return srderr.New(srderr.KindInvalidState, "policy must accept at least one cipher")
	}
	if p.RequireCBT && p.CBT == nil {
		return srderr.New(srderr.KindInvalidState, "RequireCBT set without a CBT to advertise")
	}
	return nil
}
