package services

import (
	"testing"

	"rental-marketplace-backend/db/models"

	"github.com/stretchr/testify/assert"
)

func validUser() *models.User {
	return &models.User{
		FirstName: "Rudo",
		LastName:  "Moyo",
		Email:     "rudo.moyo@example.com",
		Password:  "Str0ngPass",
		Role:      models.StaffRole,
	}
}

func TestValidateUser(t *testing.T) {
	assert.Empty(t, ValidateUser(validUser()))

	noEmail := validUser()
	noEmail.Email = ""
	assert.Equal(t, "Email is required", ValidateUser(noEmail))

	badRole := validUser()
	badRole.Role = "superuser"
	assert.Equal(t, "Invalid role", ValidateUser(badRole))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"valid", "Str0ngPass", ""},
		{"too short", "Ab1x", "Password must be at least 8 characters long"},
		{"no uppercase", "weakpass1", "Password must contain at least one uppercase letter"},
		{"no lowercase", "WEAKPASS1", "Password must contain at least one lowercase letter"},
		{"no digit", "WeakPassword", "Password must contain at least one digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestValidateEmailFormat(t *testing.T) {
	assert.True(t, ValidateEmailFormat("rudo.moyo@example.com"))
	assert.False(t, ValidateEmailFormat("not-an-email"))
	assert.False(t, ValidateEmailFormat("missing@tld"))
}
