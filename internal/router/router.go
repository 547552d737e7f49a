package router

import (
	"html/template"
	"net/http"

	"github.com/blogicum/internal/config"
	"github.com/blogicum/internal/handler"
	"github.com/blogicum/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoadTemplates 解析内嵌模板并注册自定义函数
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(handler.TemplateFuncs()).ParseFS(web.Templates, "template/*.html")
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) (*gin.Engine, *handler.API, error) {
	api := handler.NewAPI(gdb, cfg.UploadDir, cfg.UploadURLPath, cfg.PostsPerPage)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(api.Recover))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 14,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("blogicum_session", store))
	r.Use(api.LoadUser())

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// 用户上传的图片
	if cfg.UploadDir != "" && cfg.UploadURLPath != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api.RegisterRoutes(r)
	r.NoRoute(api.NotFound)

	return r, api, nil
}
