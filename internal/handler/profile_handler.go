package handler

import (
	"errors"
	"net/http"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowProfile 个人主页：本人可见全部文章，其他人只看到公开文章
func (a *API) ShowProfile(c *gin.Context) {
	profile, err := a.users.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			a.NotFound(c)
			return
		}
		a.serverError(c, err)
		return
	}

	isOwner := viewerID(c) == profile.ID

	q := service.PublicQuery()
	if isOwner {
		q = service.PostQuery{}
	}
	q.AuthorID = profile.ID
	q.Page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	q.PerPage = a.perPage

	page, err := a.posts.List(q)
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "profile.html", gin.H{
		"title":   profile.FullName(),
		"profile": profile,
		"isOwner": isOwner,
		"pageObj": page,
	})
}

// ShowProfileEdit 渲染当前用户资料编辑表单
func (a *API) ShowProfileEdit(c *gin.Context) {
	user := currentUser(c)
	a.renderHTML(c, http.StatusOK, "user.html", gin.H{
		"title": "Редактирование профиля",
		"form": service.ProfileInput{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	})
}

type profileForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Email     string `form:"email" binding:"omitempty,email,max=254"`
}

var profileFormErrors = map[string]error{
	"FirstName": service.ErrNameTooLong,
	"LastName":  service.ErrNameTooLong,
	"Email":     service.ErrEmailInvalid,
}

// UpdateProfile 保存资料后跳转到个人主页
func (a *API) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var form profileForm
	err := c.ShouldBind(&form)
	input := service.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	}

	var updated *db.User
	if err != nil {
		err = service.MapFieldError(err, profileFormErrors)
	} else {
		updated, err = a.users.UpdateProfile(user.ID, input)
	}
	if err != nil {
		var message string
		switch {
		case errors.Is(err, service.ErrEmailInvalid):
			message = "Введите правильный адрес электронной почты"
		case errors.Is(err, service.ErrNameTooLong):
			message = "Имя и фамилия не должны превышать 150 символов"
		default:
			a.serverError(c, err)
			return
		}
		a.renderHTML(c, http.StatusBadRequest, "user.html", gin.H{
			"title": "Редактирование профиля",
			"form":  input,
			"error": message,
		})
		return
	}

	redirect(c, profileURL(updated.Username))
}
