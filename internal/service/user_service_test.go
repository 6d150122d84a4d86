package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridersclub/backend/internal/model"
)

func TestUserDeleteRemovesRiderAndUnlinksApplication(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repos.Users)
	north := env.zone(t, "Dhaka North")
	staff := env.user(t, "01700000009", true)

	app, err := env.members.Submit(env.ctx, validApplication(north.ID, "01712345678"))
	require.NoError(t, err)
	member, err := env.repos.Users.GetByID(env.ctx, *app.UserID)
	require.NoError(t, err)
	rider, err := env.repos.Riders.GetByUserID(env.ctx, member.ID)
	require.NoError(t, err)
	ev := env.event(t, member, 5, 10, model.EventStatusUpcoming)

	assert.ErrorIs(t, users.Delete(env.ctx, staff, staff.ID), ErrForbidden)
	require.NoError(t, users.Delete(env.ctx, staff, member.ID))
	assert.ErrorIs(t, users.Delete(env.ctx, staff, member.ID), ErrNotFound)

	_, err = users.Get(env.ctx, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.riders.Get(env.ctx, rider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.events.Get(env.ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := env.members.Get(env.ctx, staff, app.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.UserID)

	_, err = env.auth.Login(env.ctx, "01712345678", "ride12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserUpdate(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.repos.Users)
	staff := env.user(t, "01700000009", true)
	member, _ := env.member(t, "01700000001", nil)

	updated, err := users.Update(env.ctx, staff, member.ID, UserPatch{FirstName: ptr(" Nadia "), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Nadia", updated.FirstName)
	assert.False(t, updated.IsActive)

	_, err = env.auth.Login(env.ctx, "01700000001", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Update(env.ctx, staff, staff.ID, UserPatch{IsStaff: ptr(false)})
	assert.ErrorIs(t, err, ErrForbidden)
	self, err := users.Update(env.ctx, staff, staff.ID, UserPatch{LastName: ptr("Admin")})
	require.NoError(t, err)
	assert.True(t, self.IsStaff)

	var verr *ValidationError
	_, err = users.Update(env.ctx, staff, member.ID, UserPatch{Email: ptr("not-an-email")})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = users.Update(env.ctx, staff, 999, UserPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}
