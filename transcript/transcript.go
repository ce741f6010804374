// Package transcript maintains the ordered list of prior messages in an
// SRD handshake and computes the HMAC chained over them (spec §4.3).
//
// Holding full prior message bytes grows linearly with handshake length,
// but the handshake is bounded at six messages, so a bounded buffer of a
// few KB is simple and sufficient (spec design notes §9).
package transcript

import (
	"crypto/hmac"

	"github.com/cvsouth/srd-go/srderr"
)

// HMACFunc computes HMAC-SHA256, truncated to 32 bytes (its full output
// width). It is one of the primitives spec §6 treats as externally
// supplied.
type HMACFunc func(key, msg []byte) [32]byte

// Transcript is the ordered sequence of serialized prior messages, each
// stored as its "inner" bytes (serialized without a MAC trailer).
type Transcript struct {
	inners [][]byte
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append records a message's inner bytes as the next transcript entry.
func (t *Transcript) Append(inner []byte) {
	cp := make([]byte, len(inner))
	copy(cp, inner)
	t.inners = append(t.inners, cp)
}

// concatWith returns the byte-exact concatenation of every prior entry
// followed by extra (the current message's inner bytes).
func (t *Transcript) concatWith(extra []byte) []byte {
	n := len(extra)
	for _, in := range t.inners {
		n += len(in)
	}
	buf := make([]byte, 0, n)
	for _, in := range t.inners {
		buf = append(buf, in...)
	}
	buf = append(buf, extra...)
	return buf
}

// ComputeMAC computes HMAC-SHA256(key, transcript || currentInner).
func ComputeMAC(hmacFn HMACFunc, key []byte, t *Transcript, currentInner []byte) [32]byte {
	return hmacFn(key, t.concatWith(currentInner))
}

// VerifyMAC recomputes the expected MAC and compares it to got in
// constant time with respect to the position of the first mismatching
// byte (spec §8, property 6).
func VerifyMAC(hmacFn HMACFunc, key []byte, t *Transcript, currentInner []byte, got [32]byte) error {
	want := ComputeMAC(hmacFn, key, t, currentInner)
	if !hmac.Equal(want[:], got[:]) {
		return srderr.New(srderr.KindMacFailure, "transcript MAC verification failed")
	}
	return nil
}
