package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// Result is message kind 6: the responder's final success/failure signal.
type Result struct {
	Status uint32
	MAC    [MACSize]byte
}

func (m Result) Type() uint8      { return TypeResult }
func (m Result) Seq() uint8       { return SeqResult }
func (m Result) CarriesMAC() bool { return true }

// Inner serializes the message without its MAC trailer.
func (m Result) Inner() []byte {
	buf := make([]byte, prologLen+4)
	writeProlog(buf, TypeResult, SeqResult, FlagMAC)
	binary.LittleEndian.PutUint32(buf[prologLen:prologLen+4], m.Status)
	return buf
}

func (m Result) Encode() []byte {
	inner := m.Inner()
	buf := make([]byte, len(inner)+MACSize)
	copy(buf, inner)
	copy(buf[len(inner):], m.MAC[:])
	return buf
}

// DecodeResult parses a RESULT message.
func DecodeResult(buf []byte) (Result, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Result{}, err
	}
	if p.typ != TypeResult {
		return Result{}, srderr.New(srderr.KindMalformed, "not a RESULT message")
	}
	if p.flags != FlagMAC {
		return Result{}, srderr.New(srderr.KindMalformed, "RESULT must carry only the MAC flag")
	}
	if len(buf) != prologLen+4+MACSize {
		return Result{}, srderr.New(srderr.KindMalformed, "RESULT wrong length")
	}
	var m Result
	m.Status = binary.LittleEndian.Uint32(buf[prologLen : prologLen+4])
	copy(m.MAC[:], buf[prologLen+4:])
	return m, nil
}
