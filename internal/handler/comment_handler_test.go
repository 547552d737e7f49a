package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentUsesPathPostAndCurrentUser(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	target := env.seedPost(t, db.Post{Title: "target", AuthorID: alice.ID, IsPublished: true})
	other := env.seedPost(t, db.Post{Title: "other", AuthorID: alice.ID, IsPublished: true})
	cookies := env.login(t, "bob")

	rr := env.request(t, http.MethodPost, idPath("/posts/%d/comment", target.ID), url.Values{
		"text":   {"  nice trip  "},
		"post":   {uintString(other.ID)},
		"author": {uintString(alice.ID)},
	}, cookies)
	expectRedirect(t, rr, postURL(target.ID)+"#comments")

	var comments []db.Comment
	require.NoError(t, env.db.Find(&comments).Error)
	require.Len(t, comments, 1)
	got := comments[0]
	assert.Equal(t, target.ID, got.PostID)
	assert.Equal(t, bob.ID, got.AuthorID)
	assert.Equal(t, "nice trip", got.Text)
}

func TestAddCommentOnDetailPath(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	post := env.seedPost(t, db.Post{Title: "target", AuthorID: alice.ID, IsPublished: true})
	cookies := env.login(t, "alice")

	rr := env.request(t, http.MethodPost, postURL(post.ID), url.Values{"text": {"hello"}}, cookies)
	expectRedirect(t, rr, postURL(post.ID)+"#comments")
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	post := env.seedPost(t, db.Post{Title: "target", AuthorID: alice.ID, IsPublished: true})
	cookies := env.login(t, "alice")

	for _, text := range []string{"   ", ""} {
		rr := env.request(t, http.MethodPost, idPath("/posts/%d/comment", post.ID), url.Values{"text": {text}}, cookies)
		expectTemplate(t, env, rr, http.StatusBadRequest, "comment.html")
		assert.NotEmpty(t, env.html.data["error"])
	}

	var count int64
	require.NoError(t, env.db.Model(&db.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddCommentToHiddenPostReturns404(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	draft := env.seedPost(t, db.Post{Title: "draft", AuthorID: alice.ID, IsPublished: false})
	cookies := env.login(t, "bob")

	rr := env.request(t, http.MethodPost, idPath("/posts/%d/comment", draft.ID), url.Values{"text": {"hi"}}, cookies)
	expectTemplate(t, env, rr, http.StatusNotFound, "404.html")

	rr = env.request(t, http.MethodPost, "/posts/999/comment", url.Values{"text": {"hi"}}, cookies)
	expectTemplate(t, env, rr, http.StatusNotFound, "404.html")
}

func TestEditCommentByAuthor(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	post := env.seedPost(t, db.Post{Title: "post", AuthorID: alice.ID, IsPublished: true})
	comment := env.seedComment(t, post.ID, bob.ID, "first take")
	cookies := env.login(t, "bob")

	path := idPath("/posts/%d/edit_comment/%d", post.ID, comment.ID)
	rr := env.request(t, http.MethodGet, path, nil, cookies)
	expectTemplate(t, env, rr, http.StatusOK, "comment.html")
	assert.Equal(t, "first take", env.html.data["text"])

	rr = env.request(t, http.MethodPost, path, url.Values{"text": {"second take"}}, cookies)
	expectRedirect(t, rr, postURL(post.ID)+"#comments")

	var stored db.Comment
	require.NoError(t, env.db.First(&stored, comment.ID).Error)
	assert.Equal(t, "second take", stored.Text)
}

func TestCommentMutationsByOtherUserRedirectToDetail(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	env.seedUser(t, "bob")
	post := env.seedPost(t, db.Post{Title: "post", AuthorID: alice.ID, IsPublished: true})
	comment := env.seedComment(t, post.ID, alice.ID, "mine")
	cookies := env.login(t, "bob")

	editPath := idPath("/posts/%d/edit_comment/%d", post.ID, comment.ID)
	deletePath := idPath("/posts/%d/delete_comment/%d", post.ID, comment.ID)

	expectRedirect(t, env.request(t, http.MethodGet, editPath, nil, cookies), postURL(post.ID))
	expectRedirect(t, env.request(t, http.MethodPost, editPath, url.Values{"text": {"changed"}}, cookies), postURL(post.ID))
	expectRedirect(t, env.request(t, http.MethodGet, deletePath, nil, cookies), postURL(post.ID))
	expectRedirect(t, env.request(t, http.MethodPost, deletePath, url.Values{}, cookies), postURL(post.ID))

	var stored db.Comment
	require.NoError(t, env.db.First(&stored, comment.ID).Error, "comment should still exist")
	assert.Equal(t, "mine", stored.Text)
}

func TestCommentOfAnotherPostReturns404(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	first := env.seedPost(t, db.Post{Title: "first", AuthorID: alice.ID, IsPublished: true})
	second := env.seedPost(t, db.Post{Title: "second", AuthorID: alice.ID, IsPublished: true})
	comment := env.seedComment(t, first.ID, alice.ID, "on first")
	cookies := env.login(t, "alice")

	rr := env.request(t, http.MethodGet, idPath("/posts/%d/edit_comment/%d", second.ID, comment.ID), nil, cookies)
	expectTemplate(t, env, rr, http.StatusNotFound, "404.html")

	rr = env.request(t, http.MethodPost, idPath("/posts/%d/delete_comment/%d", second.ID, comment.ID), url.Values{}, cookies)
	expectTemplate(t, env, rr, http.StatusNotFound, "404.html")
}

func TestDeleteCommentByAuthor(t *testing.T) {
	env := setupHandlerTest(t)
	alice := env.seedUser(t, "alice")
	post := env.seedPost(t, db.Post{Title: "post", AuthorID: alice.ID, IsPublished: true})
	comment := env.seedComment(t, post.ID, alice.ID, "remove me")
	cookies := env.login(t, "alice")

	path := idPath("/posts/%d/delete_comment/%d", post.ID, comment.ID)
	rr := env.request(t, http.MethodGet, path, nil, cookies)
	expectTemplate(t, env, rr, http.StatusOK, "comment.html")
	assert.Equal(t, true, env.html.data["deleting"])

	rr = env.request(t, http.MethodPost, path, url.Values{}, cookies)
	expectRedirect(t, rr, postURL(post.ID)+"#comments")

	var count int64
	require.NoError(t, env.db.Model(&db.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
