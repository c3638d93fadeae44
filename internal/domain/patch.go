package domain

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
)

// Fields is an already-deserialized partial update, keyed by field name.
type Fields map[string]any

// Mutable field whitelists. Any other key rejects the whole update.
var (
	UserMutableFields = []string{"name", "email", "age", "password"}
	TaskMutableFields = []string{"description", "completed"}
)

// checkWhitelist rejects fields containing any key outside allowed. Keys are
// checked in sorted order so the reported field is deterministic.
func checkWhitelist(fields Fields, allowed []string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !slices.Contains(allowed, k) {
			return NewValidationError(k, "is not an updatable field", ErrUnsupportedField)
		}
	}
	return nil
}

// UserPatch is a validated-shape partial update of a user's profile.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
	AgeSet   bool // Age was supplied; a nil Age clears it
}

// ParseUserPatch checks the whitelist and the value types of fields.
func ParseUserPatch(fields Fields) (*UserPatch, error) {
	if err := checkWhitelist(fields, UserMutableFields); err != nil {
		return nil, err
	}

	p := &UserPatch{}
	for key, raw := range fields {
		switch key {
		case "name":
			s, ok := raw.(string)
			if !ok {
				return nil, NewValidationError(key, "must be a string", nil)
			}
			p.Name = &s
		case "email":
			s, ok := raw.(string)
			if !ok {
				return nil, NewValidationError(key, "must be a string", ErrInvalidEmail)
			}
			p.Email = &s
		case "password":
			s, ok := raw.(string)
			if !ok {
				return nil, NewValidationError(key, "must be a string", ErrInvalidPassword)
			}
			p.Password = &s
		case "age":
			p.AgeSet = true
			if raw == nil {
				continue
			}
			n, ok := toInt(raw)
			if !ok {
				return nil, NewValidationError(key, "must be a whole number", nil)
			}
			p.Age = &n
		}
	}
	return p, nil
}

// PasswordChanged reports whether the patch sets a new password.
func (p *UserPatch) PasswordChanged() bool {
	return p.Password != nil
}

// Apply returns a copy of u with the patch applied and validated. The new
// password, if any, is left in plaintext in Password for the caller to hash.
func (p *UserPatch) Apply(u *User) (*User, error) {
	updated := u.Clone()
	updated.Password = ""

	if p.Name != nil {
		updated.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		updated.Email = NormalizeEmail(*p.Email)
	}
	if p.AgeSet {
		updated.Age = p.Age
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return nil, err
		}
		updated.Password = strings.TrimSpace(*p.Password)
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now().UTC()
	return updated, nil
}

// TaskPatch is a validated-shape partial update of a task.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

// ParseTaskPatch checks the whitelist and the value types of fields.
func ParseTaskPatch(fields Fields) (*TaskPatch, error) {
	if err := checkWhitelist(fields, TaskMutableFields); err != nil {
		return nil, err
	}

	p := &TaskPatch{}
	for key, raw := range fields {
		switch key {
		case "description":
			s, ok := raw.(string)
			if !ok {
				return nil, NewValidationError(key, "must be a string", ErrEmptyContent)
			}
			p.Description = &s
		case "completed":
			b, ok := raw.(bool)
			if !ok {
				return nil, NewValidationError(key, "must be a boolean", nil)
			}
			p.Completed = &b
		}
	}
	return p, nil
}

// Apply returns a copy of t with the patch applied and validated. The owner
// is never touched.
func (p *TaskPatch) Apply(t *Task) (*Task, error) {
	updated := t.Clone()
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		updated.Completed = *p.Completed
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now().UTC()
	return updated, nil
}

// maxExactFloat is the largest magnitude at which every integer is exactly
// representable as a float64.
const maxExactFloat = 1 << 53

// toInt converts the numeric shapes a decoder may produce into an int.
// Non-integral values and floats beyond exact integer range are rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) || n != math.Trunc(n) || math.Abs(n) > maxExactFloat {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
