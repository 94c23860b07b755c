package model

import "time"

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column in the database. The json tags
// are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags. The role string determines which profile
// table (passengers or coolies) holds the matching domain record.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (PASSENGER, COOLIE or ADMIN).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Account roles. The role is embedded in the JWT "role" claim and
// checked by the RequireRole middleware.
const (
	RolePassenger = "PASSENGER"
	RoleCoolie    = "COOLIE"
	RoleAdmin     = "ADMIN"
)

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to an account and carries metadata for
// expiry and revocation. The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
