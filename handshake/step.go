package handshake

import "github.com/cvsouth/srd-go/srderr"

// fail records a terminal, wire-silent failure: the session produces no
// outbound message and reports err to the caller. Used for framing and
// desync errors, and for the forced-silent MacFailure case of spec §7.
func (s *Session) fail(kind srderr.Kind, msg string) ([]byte, bool, error) {
	e := srderr.New(kind, msg)
	s.finish(Outcome{OK: false, Status: srderr.ResultStatus(kind)})
	return nil, true, e
}

func (s *Session) failWrap(kind srderr.Kind, msg string, cause error) ([]byte, bool, error) {
	e := srderr.Wrap(kind, msg, cause)
	s.finish(Outcome{OK: false, Status: srderr.ResultStatus(kind)})
	return nil, true, e
}

// cbtMismatch reports whether two optional channel-binding hashes
// disagree. Two absent CBTs are not a mismatch; one present and one
// absent, or two differing values, are.
func cbtMismatch(local, remote *[32]byte) bool {
	if local == nil && remote == nil {
		return false
	}
	if local == nil || remote == nil {
		return true
	}
	return *local != *remote
}
