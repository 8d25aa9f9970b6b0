package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	password := "longpass1A"
	hashedPassword, err := h.Hash(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	first, _ := h.Hash("longpass1A")
	second, _ := h.Hash("longpass1A")

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_Check(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	password := "longpass1A"
	hashedPassword, _ := h.Hash(password)

	assert.True(t, h.Check(password, hashedPassword))
	assert.False(t, h.Check("wrongpassword", hashedPassword))
}

func TestPasswordHasher_CheckInvalidHash(t *testing.T) {
	assert.False(t, NewPasswordHasher(bcrypt.MinCost).Check("longpass1A", "invalidhash"))
}

func TestPasswordHasher_UsesConfiguredCost(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hashed, err := h.Hash("longpass1A")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.True(t, h.Check("longpass1A", hashed))
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewPasswordHasher(1000)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestPasswordHasher_RejectsLongPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("A1", 40))

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
