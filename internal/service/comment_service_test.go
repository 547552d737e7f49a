package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateListUpdateDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := newTestPostService(gdb)
	svc := NewCommentService(gdb)

	author := createUser(t, gdb, "poster")
	reader := createUser(t, gdb, "commenter")
	post := createPost(t, posts, postFixture{title: "talk", author: author.ID, published: true, offset: -time.Hour})

	_, err := svc.Create(post.ID, reader.ID, "   ")
	assert.ErrorIs(t, err, ErrCommentEmpty)

	first, err := svc.Create(post.ID, reader.ID, " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Text)
	assert.Equal(t, reader.ID, first.AuthorID)
	assert.Equal(t, post.ID, first.PostID)

	_, err = svc.Create(post.ID, author.ID, "thanks")
	require.NoError(t, err)

	list, err := svc.ListForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hello", list[0].Text)
	assert.Equal(t, "commenter", list[0].Author.Username)

	updated, err := svc.Update(post.ID, first.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	_, err = svc.Update(post.ID, first.ID, "")
	assert.ErrorIs(t, err, ErrCommentEmpty)

	require.NoError(t, svc.Delete(post.ID, first.ID))
	assert.ErrorIs(t, svc.Delete(post.ID, first.ID), ErrCommentNotFound)
}

func TestCommentService_GetRequiresMatchingPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := newTestPostService(gdb)
	svc := NewCommentService(gdb)

	author := createUser(t, gdb, "matcher")
	one := createPost(t, posts, postFixture{title: "one", author: author.ID, published: true, offset: -time.Hour})
	two := createPost(t, posts, postFixture{title: "two", author: author.ID, published: true, offset: -time.Hour})

	comment, err := svc.Create(one.ID, author.ID, "on one")
	require.NoError(t, err)

	_, err = svc.Get(two.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	got, err := svc.Get(one.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, got.ID)

	assert.ErrorIs(t, svc.Delete(two.ID, comment.ID), ErrCommentNotFound)
}
