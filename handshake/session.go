// Package handshake implements the SRD handshake state machine (spec
// §4.6): two role-specific machines, initiator and responder, sharing
// the transcript/MAC machinery of package transcript and the message
// framing of package wire.
//
// A Session is single-threaded and fully synchronous (spec §5): every
// call to Step consumes at most one inbound message and produces at most
// one outbound message, with all I/O left to the caller. This is a
// deliberate divergence from the teacher's circuit.Circuit, which needs
// rmu/wmu mutexes because a circuit is shared by concurrent relay/extend
// goroutines; an SRD Session has exactly one caller driving Step and
// needs no locking at all.
package handshake

import (
	"log/slog"

	"github.com/cvsouth/srd-go/cryptoimpl"
	"github.com/cvsouth/srd-go/keyschedule"
	"github.com/cvsouth/srd-go/primitives"
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/transcript"
	"github.com/cvsouth/srd-go/wire"
)

// Role identifies which side of the exchange a Session plays.
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

func (r Role) String() string {
	if r == RoleInitiator {
		return "initiator"
	}
	return "responder"
}

// State is a position in one of the two role-specific state machines of
// spec §4.6.
type State int

const (
	StateInit State = iota
	StateWaitInitiate
	StateSentInitiate
	StateGotOffer
	StateSentAccept
	StateGotConfirm
	StateSentDelegate
	StateGotResult
	StateSentOffer
	StateGotAccept
	StateSentConfirm
	StateGotDelegate
	StateSentResult
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWaitInitiate:
		return "WAIT_INITIATE"
	case StateSentInitiate:
		return "SENT_INITIATE"
	case StateGotOffer:
		return "GOT_OFFER"
	case StateSentAccept:
		return "SENT_ACCEPT"
	case StateGotConfirm:
		return "GOT_CONFIRM"
	case StateSentDelegate:
		return "SENT_DELEGATE"
	case StateGotResult:
		return "GOT_RESULT"
	case StateSentOffer:
		return "SENT_OFFER"
	case StateGotAccept:
		return "GOT_ACCEPT"
	case StateSentConfirm:
		return "SENT_CONFIRM"
	case StateGotDelegate:
		return "GOT_DELEGATE"
	case StateSentResult:
		return "SENT_RESULT"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the terminal result of a handshake.
type Outcome struct {
	OK     bool
	Status uint32
}

// Session drives one side of one SRD handshake. Not safe for concurrent
// use: exactly one goroutine calls Step, in sequence, for the life of the
// session.
type Session struct {
	role      Role
	state     State
	policy    Policy
	providers primitives.Providers
	transcript *transcript.Transcript
	logger    *slog.Logger

	localCipherMask  uint32
	negotiatedCipher uint32
	keySize          uint16

	generator    [2]byte
	prime        []byte
	localPrivate []byte
	localPublic  []byte
	remotePublic []byte
	shared       []byte

	localNonce  [32]byte
	remoteNonce [32]byte

	localCBT  *[32]byte
	remoteCBT *[32]byte

	keys keyschedule.Keys

	username string
	password string
	hasCreds bool

	terminal bool
	outcome  Outcome
}

// NewInitiator creates a Session that will drive the initiator side of a
// handshake once SetCredentials and the first Step(nil) call happen.
func NewInitiator(policy Policy, providers primitives.Providers, logger *slog.Logger) (*Session, error) {
	return newSession(RoleInitiator, policy, providers, logger)
}

// NewResponder creates a Session that waits for an inbound INITIATE.
func NewResponder(policy Policy, providers primitives.Providers, logger *slog.Logger) (*Session, error) {
	return newSession(RoleResponder, policy, providers, logger)
}

func newSession(role Role, policy Policy, providers primitives.Providers, logger *slog.Logger) (*Session, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	providers = cryptoimpl.WithDefaults(providers)

	nonce, err := providers.RandomBytes(wire.NonceSize)
	if err != nil {
		return nil, srderr.Wrap(srderr.KindCryptoFailure, "generate local nonce", err)
	}

	s := &Session{
		role:            role,
		policy:          policy,
		providers:       providers,
		transcript:      transcript.New(),
		logger:          logger,
		localCipherMask: policy.Ciphers,
		keySize:         policy.KeySize,
		localCBT:        policy.CBT,
	}
	copy(s.localNonce[:], nonce)
	if role == RoleInitiator {
		s.state = StateInit
	} else {
		s.state = StateWaitInitiate
	}
	return s, nil
}

// SetCredentials records the username/password the initiator will
// delegate. Initiator only, and only before the handshake starts.
func (s *Session) SetCredentials(username, password string) error {
	if s.role != RoleInitiator {
		return srderr.New(srderr.KindInvalidState, "SetCredentials is initiator-only")
	}
	if s.state != StateInit {
		return srderr.New(srderr.KindInvalidState, "SetCredentials must be called before the handshake starts")
	}
	s.username, s.password = username, password
	s.hasCreds = true
	return nil
}

// Credentials returns the username/password the responder received via
// DELEGATE. Responder only, and only once DELEGATE has been processed
// successfully.
func (s *Session) Credentials() (username, password string, ok bool) {
	if s.role != RoleResponder || !s.hasCreds {
		return "", "", false
	}
	return s.username, s.password, true
}

// Outcome returns the terminal outcome once the session has finished.
func (s *Session) Outcome() (Outcome, bool) {
	return s.outcome, s.terminal
}

// State reports the session's current position in its state machine,
// mainly for logging and tests.
func (s *Session) State() State { return s.state }

// Close zeros all key material (spec §5): shared secret, derived keys,
// and the DH private exponent. Safe to call more than once and safe to
// call after an error; Step calls it automatically on any terminal
// transition, the way the teacher's ntor.HandshakeState.Close zeros the
// ephemeral private key on early-return paths.
func (s *Session) Close() {
	zero(s.shared)
	zero(s.localPrivate)
	zero(s.keys.Integrity[:])
	zero(s.keys.Delegation[:])
	zero(s.keys.IV[:])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (s *Session) finish(outcome Outcome) {
	s.terminal = true
	s.outcome = outcome
	s.Close()
}

// Step advances the handshake by exactly one message. inbound is nil
// only for the initiator's very first call, which produces INITIATE.
// Every subsequent call consumes exactly one inbound message.
//
// Returns (outbound, done, err). outbound is non-nil when this step
// produced a message to send; it may be set together with done=true
// (the responder's final RESULT). err is non-nil only for failures that
// leave nothing to send — per spec §7, those are deliberately silent on
// the wire.
func (s *Session) Step(inbound []byte) (outbound []byte, done bool, err error) {
	if s.terminal {
		return nil, true, srderr.New(srderr.KindInvalidState, "session already terminal")
	}
	if s.role == RoleInitiator {
		outbound, done, err = s.stepInitiator(inbound)
	} else {
		outbound, done, err = s.stepResponder(inbound)
	}
	if err != nil || done {
		s.Close()
	}
	return outbound, done, err
}
