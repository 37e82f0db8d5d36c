package account

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleProfile() Profile {
	return Profile{
		ID:        1,
		Email:     "admin@example.com",
		Name:      "Admin User",
		FullName:  "Admin User",
		Role:      RoleAdmin,
		Bio:       "old bio",
		Avatar:    "https://example.com/a.png",
		Phone:     "+1 555 0100",
		Location:  "New York",
		JoinDate:  time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		LastLogin: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestProfilePatch_Apply(t *testing.T) {
	p := sampleProfile()
	patch := ProfilePatch{FullName: "Ada Admin", Email: "ada@example.com", Bio: "new bio", Avatar: "data:image/png;base64,AAAA"}

	got := patch.Apply(p)

	assert.Equal(t, "Ada Admin", got.FullName)
	assert.Equal(t, "Ada Admin", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "new bio", got.Bio)
	assert.Equal(t, "data:image/png;base64,AAAA", got.Avatar)

	// untouched fields
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Role, got.Role)
	assert.Equal(t, p.Phone, got.Phone)
	assert.Equal(t, p.Location, got.Location)
	assert.Equal(t, p.JoinDate, got.JoinDate)
	assert.Equal(t, p.LastLogin, got.LastLogin)

	// original value is not modified
	assert.Equal(t, "old bio", p.Bio)
}

func TestProfilePatch_ApplyIsIdempotent(t *testing.T) {
	patch := ProfilePatch{FullName: "X", Email: "x@example.com", Bio: "b", Avatar: ""}
	once := patch.Apply(sampleProfile())
	assert.Equal(t, once, patch.Apply(once))
}

func TestProfile_Summary(t *testing.T) {
	assert.Equal(t, Summary{ID: 1, Email: "admin@example.com", Name: "Admin User", Role: RoleAdmin}, sampleProfile().Summary())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("root").Valid())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidCredentials, "Invalid email or password"},
		{fmt.Errorf("authenticate: %w", ErrInvalidCredentials), "Invalid email or password"},
		{ErrMissingToken, "No token found"},
		{ErrAccountNotFound, "User not found"},
		{ErrUnavailable, MsgUnavailable},
		{errors.New("disk on fire"), "disk on fire"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}
}

func TestSeeds(t *testing.T) {
	seeds := Seeds()
	assert.Len(t, seeds, 2)

	assert.Equal(t, "admin@example.com", seeds[0].Profile.Email)
	assert.Equal(t, "admin123", seeds[0].Password)
	assert.Equal(t, RoleAdmin, seeds[0].Profile.Role)

	assert.Equal(t, "user@example.com", seeds[1].Profile.Email)
	assert.Equal(t, "user123", seeds[1].Password)
	assert.Equal(t, RoleUser, seeds[1].Profile.Role)

	// every call returns independent values
	seeds[0].Profile.Bio = "changed"
	assert.NotEqual(t, "changed", Seeds()[0].Profile.Bio)
}
