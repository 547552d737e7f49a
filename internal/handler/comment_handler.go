package handler

import (
	"errors"
	"net/http"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

type commentForm struct {
	Text string `form:"text" binding:"required"`
}

// bindComment 读取评论表单，空文本统一映射为 ErrCommentEmpty
func bindComment(c *gin.Context) (string, error) {
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		return form.Text, service.MapFieldError(err, map[string]error{"Text": service.ErrCommentEmpty})
	}
	return form.Text, nil
}

func commentsAnchor(postID uint) string {
	return postURL(postID) + "#comments"
}

// AddComment 为路径中的文章添加评论，作者始终是当前用户
func (a *API) AddComment(c *gin.Context) {
	user := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return
	}

	post, err := a.posts.GetVisible(id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.serverError(c, err)
		return
	}

	text, err := bindComment(c)
	if err == nil {
		_, err = a.comments.Create(post.ID, user.ID, text)
	}
	if err != nil {
		if errors.Is(err, service.ErrCommentEmpty) {
			a.renderHTML(c, http.StatusBadRequest, "comment.html", gin.H{
				"title": "Комментарий",
				"post":  post,
				"error": "Комментарий не может быть пустым",
			})
			return
		}
		a.serverError(c, err)
		return
	}

	redirect(c, commentsAnchor(post.ID))
}

// loadOwnComment 加载属于路径文章的评论；非作者重定向到文章详情
func (a *API) loadOwnComment(c *gin.Context) (*db.Comment, bool) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return nil, false
	}
	commentID, err := parseUintParam(c, "comment_id")
	if err != nil {
		a.NotFound(c)
		return nil, false
	}

	if _, err := a.posts.Get(postID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return nil, false
		}
		a.serverError(c, err)
		return nil, false
	}

	comment, err := a.comments.Get(postID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			a.NotFound(c)
			return nil, false
		}
		a.serverError(c, err)
		return nil, false
	}

	if comment.AuthorID != viewerID(c) {
		redirect(c, postURL(postID))
		return nil, false
	}
	return comment, true
}

// ShowCommentEdit 渲染评论编辑表单
func (a *API) ShowCommentEdit(c *gin.Context) {
	comment, ok := a.loadOwnComment(c)
	if !ok {
		return
	}
	a.renderHTML(c, http.StatusOK, "comment.html", gin.H{
		"title":   "Редактирование комментария",
		"comment": comment,
		"text":    comment.Text,
	})
}

// UpdateComment 保存评论修改
func (a *API) UpdateComment(c *gin.Context) {
	comment, ok := a.loadOwnComment(c)
	if !ok {
		return
	}

	text, err := bindComment(c)
	if err == nil {
		_, err = a.comments.Update(comment.PostID, comment.ID, text)
	}
	if err != nil {
		if errors.Is(err, service.ErrCommentEmpty) {
			a.renderHTML(c, http.StatusBadRequest, "comment.html", gin.H{
				"title":   "Редактирование комментария",
				"comment": comment,
				"text":    text,
				"error":   "Комментарий не может быть пустым",
			})
			return
		}
		a.serverError(c, err)
		return
	}

	redirect(c, commentsAnchor(comment.PostID))
}

// ShowCommentDelete 渲染评论删除确认页
func (a *API) ShowCommentDelete(c *gin.Context) {
	comment, ok := a.loadOwnComment(c)
	if !ok {
		return
	}
	a.renderHTML(c, http.StatusOK, "comment.html", gin.H{
		"title":    "Удаление комментария",
		"comment":  comment,
		"deleting": true,
	})
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	comment, ok := a.loadOwnComment(c)
	if !ok {
		return
	}

	if err := a.comments.Delete(comment.PostID, comment.ID); err != nil && !errors.Is(err, service.ErrCommentNotFound) {
		a.serverError(c, err)
		return
	}

	redirect(c, commentsAnchor(comment.PostID))
}
