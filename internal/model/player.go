package model

import "time"

// ConnID identifies a live player connection within a room
type ConnID string

// IdentityKind distinguishes guests from registered accounts
type IdentityKind string

const (
	IdentityGuest      IdentityKind = "guest"
	IdentityRegistered IdentityKind = "registered"
)

// Identity is the persistent identity behind a connection, if any
type Identity struct {
	Kind      IdentityKind `json:"kind"`
	AccountID int64        `json:"account_id,omitempty"` // only meaningful when Kind is IdentityRegistered
}

// GuestIdentity returns the identity for an unregistered player
func GuestIdentity() Identity {
	return Identity{Kind: IdentityGuest}
}

// RegisteredIdentity returns the identity for a registered account
func RegisteredIdentity(accountID int64) Identity {
	return Identity{Kind: IdentityRegistered, AccountID: accountID}
}

// IsGuest reports whether the identity belongs to an unregistered player
func (i Identity) IsGuest() bool {
	return i.Kind != IdentityRegistered
}

// Player is a room-membership record for one connected player
type Player struct {
	ConnID      ConnID
	Identity    Identity
	DisplayName string
	Avatar      string

	// Score accumulated within the current game session only
	Score int

	JoinedAt time.Time
}
