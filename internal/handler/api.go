package handler

import (
	"time"

	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	comments   *service.CommentService
	users      *service.UserService
	images     *service.ImageStore
	perPage    int
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string, perPage int) *API {
	if perPage <= 0 {
		perPage = 10
	}
	return &API{
		db:         db,
		posts:      service.NewPostService(db),
		categories: service.NewCategoryService(db),
		comments:   service.NewCommentService(db),
		users:      service.NewUserService(db),
		images:     service.NewImageStore(uploadDir, uploadURL),
		perPage:    perPage,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Posts exposes the post service, mainly so tests can pin its clock.
func (a *API) Posts() *service.PostService {
	return a.posts
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["user"]; !exists {
		if user := currentUser(c); user != nil {
			payload["user"] = user
		}
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}

// RegisterRoutes 注册博客的全部前台路由。
func (a *API) RegisterRoutes(r gin.IRouter) {
	r.GET("/", a.ShowIndex)
	r.GET("/category/:slug", a.ShowCategoryPosts)
	r.GET("/profile/:username", a.ShowProfile)
	r.GET("/posts/:id", a.ShowPostDetail)

	pages := r.Group("/pages")
	{
		pages.GET("/about", a.ShowAbout)
		pages.GET("/rules", a.ShowRules)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", a.ShowLoginPage)
		authGroup.POST("/login", a.Login)
		authGroup.GET("/logout", a.Logout)
		authGroup.GET("/registration", a.ShowRegistration)
		authGroup.POST("/registration", a.Register)
	}

	// 需要登录的路由
	auth := r.Group("")
	auth.Use(AuthRequired())
	{
		auth.GET("/posts/create", a.ShowPostCreate)
		auth.POST("/posts/create", a.CreatePost)
		auth.POST("/posts/:id", a.AddComment)
		auth.GET("/posts/:id/edit", a.ShowPostEdit)
		auth.POST("/posts/:id/edit", a.UpdatePost)
		auth.GET("/posts/:id/delete", a.ShowPostDelete)
		auth.POST("/posts/:id/delete", a.DeletePost)
		auth.POST("/posts/:id/comment", a.AddComment)
		auth.GET("/posts/:id/edit_comment/:comment_id", a.ShowCommentEdit)
		auth.POST("/posts/:id/edit_comment/:comment_id", a.UpdateComment)
		auth.GET("/posts/:id/delete_comment/:comment_id", a.ShowCommentDelete)
		auth.POST("/posts/:id/delete_comment/:comment_id", a.DeleteComment)
		auth.GET("/edit_profile", a.ShowProfileEdit)
		auth.POST("/edit_profile", a.UpdateProfile)
		auth.GET("/auth/password_change", a.ShowPasswordChange)
		auth.POST("/auth/password_change", a.ChangePassword)
		auth.GET(passwordChangeDonePath, a.ShowPasswordChangeDone)
	}
}
