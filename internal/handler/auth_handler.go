package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey    = "user_id"
	currentUserCtxKey = "__current_user"
	loginPath         = "/auth/login"

	passwordChangeDonePath = "/auth/password_change/done"
)

// LoadUser 从会话中恢复当前登录用户并放入上下文
func (a *API) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionUserKey).(uint)
		if ok && id != 0 {
			user, err := a.users.Get(id)
			switch {
			case err == nil:
				c.Set(currentUserCtxKey, user)
			case errors.Is(err, service.ErrUserNotFound):
				session.Clear()
				_ = session.Save()
			default:
				c.Error(err)
			}
		}
		c.Next()
	}
}

// AuthRequired 未登录时跳转到登录页，并携带 next 参数
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			redirect(c, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(currentUserCtxKey)
	if !exists {
		return nil
	}
	user, _ := value.(*db.User)
	return user
}

func viewerID(c *gin.Context) uint {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Вход",
		"next":  safeNext(c.Query("next")),
	})
}

// Login 校验用户名密码，成功后跳转到 next 或个人主页
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Неверное имя пользователя или пароль"
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("[ERROR] login %q: %v", username, err)
			status = http.StatusInternalServerError
			message = "Не удалось выполнить вход"
		}
		a.renderHTML(c, status, "login.html", gin.H{
			"title":    "Вход",
			"error":    message,
			"username": username,
			"next":     next,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("[ERROR] save session: %v", err)
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Вход",
			"error": "Не удалось сохранить сессию",
		})
		return
	}

	if next == "" {
		next = profileURL(user.Username)
	}
	redirect(c, next)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = session.Save()
	redirect(c, "/")
}

// ShowRegistration 渲染注册页面
func (a *API) ShowRegistration(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "registration.html", gin.H{
		"title": "Регистрация",
	})
}

type registrationForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

var registrationFormErrors = map[string]error{
	"Username":  service.ErrUsernameInvalid,
	"Password1": service.ErrPasswordTooShort,
	"Password2": service.ErrPasswordMismatch,
}

// Register 创建新用户后回到首页
func (a *API) Register(c *gin.Context) {
	var form registrationForm
	err := c.ShouldBind(&form)
	if err != nil {
		err = service.MapFieldError(err, registrationFormErrors)
	} else {
		_, err = a.users.Register(service.RegistrationInput{
			Username:        form.Username,
			Password:        form.Password1,
			PasswordConfirm: form.Password2,
		})
	}

	if err != nil {
		status := http.StatusBadRequest
		var message string
		switch {
		case errors.Is(err, service.ErrUsernameInvalid):
			message = "Допустимы только буквы, цифры и символы @/./+/-/_ (не более 150)"
		case errors.Is(err, service.ErrUsernameTaken):
			message = "Пользователь с таким именем уже существует"
		case errors.Is(err, service.ErrPasswordTooShort):
			message = "Пароль должен содержать не менее 8 символов"
		case errors.Is(err, service.ErrPasswordMismatch):
			message = "Пароли не совпадают"
		default:
			log.Printf("[ERROR] register %q: %v", form.Username, err)
			status = http.StatusInternalServerError
			message = "Не удалось зарегистрироваться"
		}
		a.renderHTML(c, status, "registration.html", gin.H{
			"title":    "Регистрация",
			"error":    message,
			"username": form.Username,
		})
		return
	}

	redirect(c, "/")
}

type passwordChangeForm struct {
	OldPassword  string `form:"old_password" binding:"required"`
	NewPassword1 string `form:"new_password1" binding:"required,min=8"`
	NewPassword2 string `form:"new_password2" binding:"required,eqfield=NewPassword1"`
}

var passwordChangeFormErrors = map[string]error{
	"OldPassword":  service.ErrOldPasswordIncorrect,
	"NewPassword1": service.ErrPasswordTooShort,
	"NewPassword2": service.ErrPasswordMismatch,
}

// ShowPasswordChange 渲染修改密码表单
func (a *API) ShowPasswordChange(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "password_change.html", gin.H{
		"title": "Изменение пароля",
	})
}

// ChangePassword 校验旧密码并保存新密码，会话保持有效
func (a *API) ChangePassword(c *gin.Context) {
	user := currentUser(c)

	var form passwordChangeForm
	err := c.ShouldBind(&form)
	if err != nil {
		err = service.MapFieldError(err, passwordChangeFormErrors)
	} else {
		err = a.users.ChangePassword(user.ID, service.PasswordChangeInput{
			OldPassword:        form.OldPassword,
			NewPassword:        form.NewPassword1,
			NewPasswordConfirm: form.NewPassword2,
		})
	}

	if err != nil {
		var message string
		switch {
		case errors.Is(err, service.ErrOldPasswordIncorrect):
			message = "Старый пароль введён неверно"
		case errors.Is(err, service.ErrPasswordTooShort):
			message = "Пароль должен содержать не менее 8 символов"
		case errors.Is(err, service.ErrPasswordMismatch):
			message = "Пароли не совпадают"
		default:
			a.serverError(c, err)
			return
		}
		a.renderHTML(c, http.StatusBadRequest, "password_change.html", gin.H{
			"title": "Изменение пароля",
			"error": message,
		})
		return
	}

	redirect(c, passwordChangeDonePath)
}

// ShowPasswordChangeDone 修改成功提示页
func (a *API) ShowPasswordChangeDone(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "password_change_done.html", gin.H{
		"title": "Пароль изменён",
	})
}
