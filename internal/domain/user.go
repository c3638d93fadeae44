package domain

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password rules
const (
	// MinPasswordLength is measured after trimming surrounding whitespace.
	MinPasswordLength = 6

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72

	// MaxAge is the largest age the users table can hold.
	MaxAge = math.MaxInt32

	// forbiddenPasswordWord may not appear anywhere in a password, in any case.
	forbiddenPasswordWord = "password"
)

// validate is shared by the domain's syntactic checks.
var validate = validator.New()

// User is a registered account. It owns its credential state and the
// ordered list of live session tokens; a token is only honoured while it is
// present in Sessions.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            *int      `json:"age,omitempty"`
	Password       string    `json:"-"` // Plaintext, only set between input and hashing
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Sessions       []string  `json:"-"` // Login order; empty means fully logged out
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User from registration input. The email is
// normalized and the password trimmed before validation.
//
// The returned user carries the plaintext password; the caller must hash
// it into HashedPassword and clear Password before persisting.
func NewUser(name, email string, age *int, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  strings.TrimSpace(password),
		Sessions:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the account invariants.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "is required", ErrEmptyContent)
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.Age != nil && *u.Age < 0 {
		return NewValidationError("age", "cannot be negative", nil)
	}
	if u.Age != nil && *u.Age > MaxAge {
		return NewValidationError("age", "is too large", nil)
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	// Persisted users have no plaintext, only the hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrInvalidPassword)
	}

	return nil
}

// NormalizeEmail trims and lower-cases an email address so that uniqueness
// is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is present and syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "is required", ErrInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "is invalid", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword applies the raw password rules: at least
// MinPasswordLength characters and at most MaxPasswordBytes bytes after
// trimming, and no occurrence of the word "password" in any letter case.
func ValidatePassword(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) < MinPasswordLength {
		return NewValidationError("password", "is too short", ErrInvalidPassword)
	}
	if len(trimmed) > MaxPasswordBytes {
		return NewValidationError("password", "is too long", ErrInvalidPassword)
	}
	if strings.Contains(strings.ToLower(trimmed), forbiddenPasswordWord) {
		return NewValidationError("password", `must not contain "password"`, ErrInvalidPassword)
	}
	return nil
}

// HasSession reports whether token is one of the user's live sessions.
func (u *User) HasSession(token string) bool {
	return slices.Contains(u.Sessions, token)
}

// AddSession appends token to the session list, keeping login order.
func (u *User) AddSession(token string) {
	if u.HasSession(token) {
		return
	}
	u.Sessions = append(u.Sessions, token)
}

// RemoveSession drops token from the session list. It reports whether the
// token was present.
func (u *User) RemoveSession(token string) bool {
	before := len(u.Sessions)
	u.Sessions = slices.DeleteFunc(u.Sessions, func(s string) bool { return s == token })
	return len(u.Sessions) != before
}

// ClearSessions revokes every session.
func (u *User) ClearSessions() {
	u.Sessions = []string{}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	c.Sessions = slices.Clone(u.Sessions)
	if c.Sessions == nil {
		c.Sessions = []string{}
	}
	return &c
}
