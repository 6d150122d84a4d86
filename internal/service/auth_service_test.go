package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAcceptsLocalAndInternationalPhone(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "01711111111", false)

	for _, number := range []string{"01711111111", "+8801711111111", " 01711111111 "} {
		res, err := env.auth.Login(env.ctx, number, testPassword)
		require.NoError(t, err, number)
		assert.Equal(t, u.ID, res.User.ID)
		assert.NotEmpty(t, res.Access)
		assert.NotEmpty(t, res.Refresh)
		assert.NotNil(t, res.User.LastLogin)
	}
}

func TestLoginStoredInternationalForm(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "+8801822222222", false)

	_, err := env.auth.Login(env.ctx, "01822222222", testPassword)
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "01711111111", false)

	_, err := env.auth.Login(env.ctx, "01711111111", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(env.ctx, "01999999999", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(env.ctx, "", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	u.IsActive = false
	require.NoError(t, env.repos.Users.Update(env.ctx, u))
	_, err = env.auth.Login(env.ctx, "01711111111", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "01711111111", false)

	res, err := env.auth.Login(env.ctx, "01711111111", testPassword)
	require.NoError(t, err)

	access, err := env.auth.Refresh(env.ctx, res.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = env.auth.Refresh(env.ctx, res.Access)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	require.NoError(t, env.auth.Logout(env.ctx, res.Refresh))

	_, err = env.auth.Refresh(env.ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
	assert.ErrorIs(t, env.auth.Logout(env.ctx, res.Refresh), ErrRefreshTokenInvalid)
	assert.ErrorIs(t, env.auth.Logout(env.ctx, "garbage"), ErrRefreshTokenInvalid)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "01711111111", false)

	res, err := env.auth.Login(env.ctx, "01711111111", testPassword)
	require.NoError(t, err)

	got, err := env.auth.Authenticate(env.ctx, res.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = env.auth.Authenticate(env.ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = env.auth.Authenticate(env.ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "01711111111", false)

	var verr *ValidationError
	err := env.auth.ChangePassword(env.ctx, u, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "newpass123", ConfirmPassword: "other1234"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "New passwords do not match", verr.Message)

	err = env.auth.ChangePassword(env.ctx, u, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "short", ConfirmPassword: "short"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at least 8 characters long", verr.Message)

	err = env.auth.ChangePassword(env.ctx, u, ChangePasswordInput{CurrentPassword: "nope", NewPassword: "newpass123", ConfirmPassword: "newpass123"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Current password is incorrect", verr.Message)

	require.NoError(t, env.auth.ChangePassword(env.ctx, u, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "newpass123", ConfirmPassword: "newpass123"}))

	_, err = env.auth.Login(env.ctx, "01711111111", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(env.ctx, "01711111111", "newpass123")
	assert.NoError(t, err)
}

func TestUpdateProfileSyncsApplication(t *testing.T) {
	env := newTestEnv(t)
	north := env.zone(t, "Dhaka North")
	south := env.zone(t, "Dhaka South")

	app, err := env.members.Submit(env.ctx, validApplication(north.ID, "01733333333"))
	require.NoError(t, err)
	u, err := env.repos.Users.GetByID(env.ctx, *app.UserID)
	require.NoError(t, err)

	p, err := env.auth.UpdateProfile(env.ctx, u, ProfileUpdate{
		ZoneID:    &south.ID,
		BikeModel: ptr("Honda CB Hornet"),
		Bio:       ptr("Weekend tourer"),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Rider)
	require.NotNil(t, p.Application)
	assert.Equal(t, south.ID, *p.Rider.ZoneID)
	assert.Equal(t, "Honda CB Hornet", p.Rider.BikeModel)
	assert.Equal(t, "Weekend tourer", p.Rider.Bio)
	assert.Equal(t, south.ID, p.Application.ZoneID)
	assert.Equal(t, "Honda", p.Application.MotorcycleBrand)
	assert.Equal(t, "CB Hornet", p.Application.MotorcycleModel)
	assert.True(t, p.Application.HasMotorbike)

	var verr *ValidationError
	_, err = env.auth.UpdateProfile(env.ctx, u, ProfileUpdate{ZoneID: ptr(uint(999))})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "zone")
}

func TestUpdateProfileWithoutRider(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "01711111111", true)

	_, err := env.auth.UpdateProfile(env.ctx, u, ProfileUpdate{Bio: ptr("x")})
	assert.ErrorIs(t, err, ErrRiderNotFound)

	p, err := env.auth.Profile(env.ctx, u)
	require.NoError(t, err)
	assert.Nil(t, p.Rider)
	assert.Nil(t, p.Application)
}
