package postboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role assigned at signup
	RoleUser UserRole = "user"
	// RoleAdmin is stored for administrative accounts. Nothing enforces it
	// today; the authenticator attaches no authority to identities.
	RoleAdmin UserRole = "admin"
)

// ParseRole maps a raw string onto a known role.
func ParseRole(raw string) (UserRole, bool) {
	switch raw {
	case RoleUser, RoleAdmin:
		return raw, true
	default:
		return "", false
	}
}

// User is the credential record: username and email are unique, the
// password is stored only as a bcrypt digest.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Post is a board entry.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Content       string     `bun:"content" json:"content"`
	Author        string     `bun:"author,notnull" json:"author"`
	ViewCount     int64      `bun:"view_count,nullzero,default:0" json:"view_count"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
