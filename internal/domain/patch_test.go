package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedUser() *User {
	return &User{
		ID:             uuid.New(),
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$hash",
		Sessions:       []string{"tok"},
	}
}

func TestParseUserPatch_RejectsUnsupportedField(t *testing.T) {
	_, err := ParseUserPatch(Fields{"name": "Al", "sessions": []any{}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedField)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sessions", verr.Field)
}

func TestParseUserPatch_Types(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr bool
	}{
		{"string name", Fields{"name": "Bob"}, false},
		{"numeric name", Fields{"name": 12}, true},
		{"float age", Fields{"age": float64(31)}, false},
		{"json number age", Fields{"age": json.Number("31")}, false},
		{"fractional age", Fields{"age": 3.5}, true},
		{"float age beyond exact range", Fields{"age": 1e300}, true},
		{"json number age beyond int64", Fields{"age": json.Number("1e20")}, true},
		{"string age", Fields{"age": "31"}, true},
		{"null age", Fields{"age": nil}, false},
		{"bool password", Fields{"password": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserPatch(tt.fields)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserPatch_Apply(t *testing.T) {
	u := persistedUser()
	p, err := ParseUserPatch(Fields{"name": " Bob ", "email": "BOB@Example.com", "age": float64(40), "password": " newsecret "})
	require.NoError(t, err)

	updated, err := p.Apply(u)
	require.NoError(t, err)

	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, "bob@example.com", updated.Email)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 40, *updated.Age)
	assert.Equal(t, "newsecret", updated.Password)
	assert.True(t, p.PasswordChanged())
	assert.Equal(t, []string{"tok"}, updated.Sessions)

	// original untouched
	assert.Equal(t, "Alice", u.Name)
	assert.Empty(t, u.Password)
}

func TestUserPatch_ApplyValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		cause  error
	}{
		{"empty password", Fields{"password": ""}, ErrInvalidPassword},
		{"password word", Fields{"password": "PASSWORD99"}, ErrInvalidPassword},
		{"bad email", Fields{"email": "nope"}, ErrInvalidEmail},
		{"empty name", Fields{"name": " "}, ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseUserPatch(tt.fields)
			require.NoError(t, err)

			_, err = p.Apply(persistedUser())
			assert.ErrorIs(t, err, tt.cause)
		})
	}

	p, err := ParseUserPatch(Fields{"age": float64(-2)})
	require.NoError(t, err)
	_, err = p.Apply(persistedUser())
	assert.ErrorIs(t, err, ErrValidation)

	p, err = ParseUserPatch(Fields{"age": float64(3e9)})
	require.NoError(t, err)
	_, err = p.Apply(persistedUser())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "age", verr.Field)

	p, err = ParseUserPatch(Fields{"password": strings.Repeat("x", MaxPasswordBytes+1)})
	require.NoError(t, err)
	_, err = p.Apply(persistedUser())
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUserPatch_ClearAge(t *testing.T) {
	u := persistedUser()
	age := 20
	u.Age = &age

	p, err := ParseUserPatch(Fields{"age": nil})
	require.NoError(t, err)

	updated, err := p.Apply(u)
	require.NoError(t, err)
	assert.Nil(t, updated.Age)
}

func TestParseTaskPatch(t *testing.T) {
	_, err := ParseTaskPatch(Fields{"description": "x", "owner": uuid.New().String()})
	assert.ErrorIs(t, err, ErrUnsupportedField)

	_, err = ParseTaskPatch(Fields{"completed": "yes"})
	assert.ErrorIs(t, err, ErrValidation)

	task, err := NewTask(uuid.New(), "write report", false)
	require.NoError(t, err)

	p, err := ParseTaskPatch(Fields{"completed": true, "description": "write final report"})
	require.NoError(t, err)

	updated, err := p.Apply(task)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write final report", updated.Description)
	assert.Equal(t, task.OwnerID, updated.OwnerID)
	assert.False(t, task.Completed)

	p, err = ParseTaskPatch(Fields{"description": ""})
	require.NoError(t, err)
	_, err = p.Apply(task)
	assert.ErrorIs(t, err, ErrEmptyContent)
}
