// Package credential encodes and parses the SRD credential blob carried
// inside an encrypted DELEGATE message (spec §3, §4.2).
package credential

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// Magic is the blob signature, distinct from the wire.Magic message
// signature.
const Magic uint32 = 0x4C425253

// KindBasicLogon is the only payload kind currently defined.
const KindBasicLogon uint32 = 1

const blobHeaderLen = 4 + 4 // magic + kind

// EncodeBasicLogon serializes a username/password pair as a BasicLogon
// blob: magic || kind || u16 username_len || u16 password_len || username
// || password, all in UTF-8 with no trailing NUL.
func EncodeBasicLogon(username, password string) []byte {
	uBytes, pBytes := []byte(username), []byte(password)
	payload := make([]byte, 4+len(uBytes)+len(pBytes))
	binary.LittleEndian.PutUint16(payload[0:2], uint16(len(uBytes)))
	binary.LittleEndian.PutUint16(payload[2:4], uint16(len(pBytes)))
	copy(payload[4:], uBytes)
	copy(payload[4+len(uBytes):], pBytes)

	buf := make([]byte, blobHeaderLen+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], KindBasicLogon)
	copy(buf[blobHeaderLen:], payload)
	return buf
}

// DecodeBasicLogon parses a plaintext blob (which may carry trailing
// zero padding from the cipher's block alignment: the exact lengths come
// from the embedded username_len/password_len fields, not from len(buf)).
func DecodeBasicLogon(buf []byte) (username, password string, err error) {
	if len(buf) < blobHeaderLen {
		return "", "", srderr.New(srderr.KindMalformed, "credential blob shorter than header")
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != Magic {
		return "", "", srderr.New(srderr.KindMalformed, "credential blob signature mismatch")
	}
	kind := binary.LittleEndian.Uint32(buf[4:8])
	if kind != KindBasicLogon {
		return "", "", srderr.New(srderr.KindMalformed, "unsupported credential blob kind")
	}
	payload := buf[blobHeaderLen:]
	if len(payload) < 4 {
		return "", "", srderr.New(srderr.KindMalformed, "credential payload shorter than its length prefix")
	}
	uLen := int(binary.LittleEndian.Uint16(payload[0:2]))
	pLen := int(binary.LittleEndian.Uint16(payload[2:4]))
	need := 4 + uLen + pLen
	if len(payload) < need {
		return "", "", srderr.New(srderr.KindMalformed, "credential payload truncated")
	}
	username = string(payload[4 : 4+uLen])
	password = string(payload[4+uLen : 4+uLen+pLen])
	return username, password, nil
}
