package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/amoypay/gasless-wallet/apperr"
)

// Session is one authentication session against a Provider. It replaces the
// process-wide login object: callers create a session, connect it, hand it to
// the wallet service and destroy it on logout. A Session is driven from a
// single goroutine, matching the event-loop model of the calling layer.
type Session struct {
	id       uuid.UUID
	provider Provider

	signer    Signer
	info      UserInfo
	connected bool

	onConnect    []func(Signer)
	onDisconnect []func()
}

func NewSession(provider Provider) *Session {
	return &Session{
		id:       uuid.New(),
		provider: provider,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// OnConnect registers a callback fired once per successful Connect.
func (s *Session) OnConnect(fn func(Signer)) {
	s.onConnect = append(s.onConnect, fn)
}

// OnDisconnect registers a callback fired once per Disconnect.
func (s *Session) OnDisconnect(fn func()) {
	s.onDisconnect = append(s.onDisconnect, fn)
}

// Connect obtains the signing credential from the provider. Connecting an
// already-connected session is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	if s.connected {
		return nil
	}

	signer, info, err := s.provider.Connect(ctx)
	if err != nil {
		return apperr.Classify("auth.Connect", err)
	}

	s.signer = signer
	s.info = info
	s.connected = true

	for _, fn := range s.onConnect {
		fn(signer)
	}
	return nil
}

// Disconnect invalidates the credential and notifies observers. The session
// may be connected again afterwards, yielding a fresh credential.
func (s *Session) Disconnect(ctx context.Context) error {
	if !s.connected {
		return nil
	}

	err := s.provider.Disconnect(ctx)

	s.signer = nil
	s.info = UserInfo{}
	s.connected = false

	for _, fn := range s.onDisconnect {
		fn()
	}
	return apperr.Classify("auth.Disconnect", err)
}

func (s *Session) Connected() bool { return s.connected }

// Signer returns the active credential, or NotAuthenticated when the session
// is disconnected.
func (s *Session) Signer() (Signer, error) {
	if !s.connected || s.signer == nil {
		return nil, apperr.New(apperr.CodeNotAuthenticated, "auth.Signer", "not authenticated - please log in")
	}
	return s.signer, nil
}

// UserInfo returns the provider-reported identity for the active credential.
func (s *Session) UserInfo() (UserInfo, error) {
	if !s.connected {
		return UserInfo{}, apperr.New(apperr.CodeNotAuthenticated, "auth.UserInfo", "not authenticated - please log in")
	}
	return s.info, nil
}
