package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridersclub/backend/internal/repository"
)

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.member(t, "01700000001", nil)
	fan, fanRider := env.member(t, "01700000002", nil)

	post, err := env.posts.Create(env.ctx, author, PostInput{Title: ptr("Chain care"), Content: ptr("Lube every 500 km.")})
	require.NoError(t, err)
	assert.Empty(t, post.Likes)

	res, err := env.posts.ToggleLike(env.ctx, fan, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikesCount)

	got, err := env.posts.Get(env.ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.LikedBy(fanRider.ID))

	res, err = env.posts.ToggleLike(env.ctx, fan, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(0), res.LikesCount)

	_, err = env.posts.ToggleLike(env.ctx, fan, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostAuthorization(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.member(t, "01700000001", nil)
	other, _ := env.member(t, "01700000002", nil)
	staff := env.user(t, "01700000009", true)

	post, err := env.posts.Create(env.ctx, author, PostInput{Title: ptr("Route notes"), Content: ptr("Avoid the highway at night.")})
	require.NoError(t, err)

	_, err = env.posts.Update(env.ctx, other, post.ID, PostInput{Title: ptr("Mine now")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.posts.Update(env.ctx, author, post.ID, PostInput{Title: ptr("Route notes v2")})
	require.NoError(t, err)
	assert.Equal(t, "Route notes v2", updated.Title)

	_, err = env.posts.Create(env.ctx, staff, PostInput{Title: ptr("x"), Content: ptr("y")})
	assert.ErrorIs(t, err, ErrRiderNotFound)

	assert.ErrorIs(t, env.posts.Delete(env.ctx, other, post.ID), ErrForbidden)
	require.NoError(t, env.posts.Delete(env.ctx, staff, post.ID))
	_, err = env.posts.Get(env.ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostValidationAndFilter(t *testing.T) {
	env := newTestEnv(t)
	author, authorRider := env.member(t, "01700000001", nil)
	other, _ := env.member(t, "01700000002", nil)

	_, err := env.posts.Create(env.ctx, author, PostInput{Title: ptr(" ")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")

	_, err = env.posts.Create(env.ctx, author, PostInput{Title: ptr("One"), Content: ptr("a")})
	require.NoError(t, err)
	_, err = env.posts.Create(env.ctx, other, PostInput{Title: ptr("Two"), Content: ptr("b")})
	require.NoError(t, err)

	list, err := env.posts.List(env.ctx, repository.PostFilter{AuthorID: &authorRider.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "One", list[0].Title)

	assert.Equal(t, authorRider.ID, env.posts.ViewerRiderID(env.ctx, author))
	assert.Zero(t, env.posts.ViewerRiderID(env.ctx, nil))
}
