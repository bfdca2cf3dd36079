package auth

import "time"

// Config drives token issuance and credential handling.
type Config struct {
	Secret         string
	TokenTTL       time.Duration
	PasswordScheme string
}

// Role is the small integer role enum carried in tokens and user rows.
type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
	RoleGuest Role = 3
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleGuest
}

// User represents a persisted account.
type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"userName"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Status       int       `json:"status"` // 0 disabled, 1 enabled
	CreateTime   time.Time `json:"createTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

// Identity holds the facts attached to an authenticated request.
type Identity struct {
	UserName string
	UserID   int64
	Role     Role
}

// LoginRequest captures the login payload plus the challenge session.
type LoginRequest struct {
	Username  string
	Password  string
	Captcha   string
	SessionID string
}

// LoginResult is the identity summary returned on successful login.
type LoginResult struct {
	UserID   int64  `json:"userID"`
	UserName string `json:"userName"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ProfileUpdate carries the user-editable profile fields.
type ProfileUpdate struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
