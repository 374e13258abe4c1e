package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Course fee", SanitizeString("  <b>Course</b> fee "))
	assert.Equal(t, "alert(1)", SanitizeString("<script>alert(1)</script>"))
	assert.Equal(t, "", SanitizeString("   "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"asha@example.com", "a.b+c@sub.example.in"} {
		valid, _ := ValidateEmail(email)
		assert.True(t, valid, email)
	}
	for _, email := range []string{"", "asha", "asha@", "@example.com", "asha@example"} {
		valid, msg := ValidateEmail(email)
		assert.False(t, valid, email)
		assert.NotEmpty(t, msg)
	}
}

func TestValidatePassword(t *testing.T) {
	valid, _ := ValidatePassword(strings.Repeat("x", MinPasswordLength))
	assert.True(t, valid)

	valid, msg := ValidatePassword(strings.Repeat("x", MinPasswordLength-1))
	assert.False(t, valid)
	assert.Equal(t, "Password must be at least 8 characters long", msg)
}

func TestValidateName(t *testing.T) {
	valid, _ := ValidateName("First name", "Asha")
	assert.True(t, valid)

	valid, msg := ValidateName("First name", strings.Repeat("a", MaxNameLength+1))
	assert.False(t, valid)
	assert.Equal(t, "First name must not exceed 150 characters", msg)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, CheckPassword("correct-horse", hash))
	assert.False(t, CheckPassword("wrong-horse", hash))
}
