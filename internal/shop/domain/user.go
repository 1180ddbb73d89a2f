package domain

import "time"

// Role is the closed set of capabilities a user can hold. Promotion only ever
// goes Customer -> Administrator; there is no demotion path.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdministrator
}

// User as stored. The Encrypted* fields hold AES-GCM ciphertext; only the
// user service decrypts them, and only for the record owner or an
// administrator. Email stays plaintext because it is the login lookup key.
type User struct {
	ID                string
	Email             string
	EncryptedForename string
	EncryptedSurname  string
	EncryptedAddress  string
	Role              Role
	PasswordHash      string     // argon2id PHC encoded
	TOTPSecret        *string    // active TOTP secret (base32), nil when 2FA is off
	TOTPPendingSecret *string    // enrollment secret awaiting its first valid code
	TOTPConfirmedAt   *time.Time // when the active secret was confirmed
	TOTPLastStep      int64      // last accepted TOTP time step, for single-use enforcement
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TOTPActive reports whether login requires a second factor. A pending,
// unconfirmed enrollment secret deliberately does not count: until the user
// proves they can generate codes, the old state stays authoritative so a
// mistyped enrollment cannot lock them out.
func (u User) TOTPActive() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// Profile is the decrypted view of a user's personal fields. It only ever
// exists in memory on an authorized read path.
type Profile struct {
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Address  string `json:"address"`
}

// UserSearch filters the admin user listing.
type UserSearch struct {
	Email string // substring match
	Role  Role   // exact match when non-empty
}
