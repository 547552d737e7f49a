package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowAbout 渲染“关于项目”静态页
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{"title": "О проекте"})
}

// ShowRules 渲染“我们的规则”静态页
func (a *API) ShowRules(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "rules.html", gin.H{"title": "Наши правила"})
}

// NotFound 渲染 404 页面并终止后续处理
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{
		"title": "Страница не найдена",
		"path":  c.Request.URL.Path,
	})
	c.Abort()
}

func (a *API) serverError(c *gin.Context, err error) {
	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.Error(err)
	a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{
		"title": "Ошибка сервера",
	})
	c.Abort()
}

// Recover 作为 gin.CustomRecovery 的回调，panic 时渲染 500 页面
func (a *API) Recover(c *gin.Context, recovered any) {
	log.Printf("[ERROR] panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{
		"title": "Ошибка сервера",
	})
	c.Abort()
}
