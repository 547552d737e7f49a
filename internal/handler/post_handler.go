package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

const pubDateLayout = "2006-01-02T15:04"

type postForm struct {
	Title       string `form:"title" binding:"required,max=256"`
	Text        string `form:"text" binding:"required"`
	PubDate     string `form:"pub_date" binding:"required"`
	IsPublished string `form:"is_published"`
	Category    string `form:"category"`
	Location    string `form:"location"`
}

var postFormErrors = map[string]error{
	"Title.required": service.ErrTitleRequired,
	"Title.max":      service.ErrTitleTooLong,
	"Text":           service.ErrTextRequired,
	"PubDate":        service.ErrPubDateRequired,
}

func postFormFrom(post *db.Post) postForm {
	form := postForm{
		Title:   post.Title,
		Text:    post.Text,
		PubDate: post.PubDate.UTC().Format(pubDateLayout),
	}
	if post.IsPublished {
		form.IsPublished = "on"
	}
	if post.CategoryID != nil {
		form.Category = uintString(*post.CategoryID)
	}
	if post.LocationID != nil {
		form.Location = uintString(*post.LocationID)
	}
	return form
}

func parsePubDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{pubDateLayout, "2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, service.ErrPubDateRequired
}

// ShowIndex 首页：公开可见文章的分页列表
func (a *API) ShowIndex(c *gin.Context) {
	q := service.PublicQuery()
	q.Page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	q.PerPage = a.perPage

	page, err := a.posts.List(q)
	if err != nil {
		a.serverError(c, err)
		return
	}

	categories, err := a.categories.ListPublished()
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title":      "Лента записей",
		"pageObj":    page,
		"categories": categories,
	})
}

// ShowCategoryPosts 分类页：分类不存在或未发布时返回 404
func (a *API) ShowCategoryPosts(c *gin.Context) {
	category, err := a.categories.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.NotFound(c)
			return
		}
		a.serverError(c, err)
		return
	}

	q := service.PublicQuery()
	q.CategoryID = category.ID
	q.Page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	q.PerPage = a.perPage

	page, err := a.posts.List(q)
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "category.html", gin.H{
		"title":    category.Title,
		"category": category,
		"pageObj":  page,
	})
}

// ShowPostDetail 文章详情：对公众不可见时仅作者可访问，否则 404
func (a *API) ShowPostDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return
	}

	post, err := a.posts.GetVisible(id, viewerID(c))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return
		}
		a.serverError(c, err)
		return
	}

	a.renderPostDetail(c, http.StatusOK, post, "")
}

func (a *API) renderPostDetail(c *gin.Context, status int, post *db.Post, commentError string) {
	comments, err := a.comments.ListForPost(post.ID)
	if err != nil {
		a.serverError(c, err)
		return
	}

	content, err := renderMarkdown(post.Text)
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, status, "detail.html", gin.H{
		"title":        post.Title,
		"post":         post,
		"content":      content,
		"comments":     comments,
		"commentError": commentError,
		"isAuthor":     viewerID(c) == post.AuthorID,
	})
}

func (a *API) renderPostForm(c *gin.Context, status int, form postForm, post *db.Post, formError string) {
	// 表单列出全部分类和地点，否则编辑隐藏分类中的文章会丢失分类
	categories, err := a.categories.ListAll()
	if err != nil {
		a.serverError(c, err)
		return
	}
	locations, err := a.categories.ListAllLocations()
	if err != nil {
		a.serverError(c, err)
		return
	}

	title := "Новая публикация"
	if post != nil {
		title = "Редактирование публикации"
	}

	a.renderHTML(c, status, "create.html", gin.H{
		"title":      title,
		"form":       form,
		"post":       post,
		"categories": categories,
		"locations":  locations,
		"error":      formError,
	})
}

// ShowPostCreate 渲染新建文章表单
func (a *API) ShowPostCreate(c *gin.Context) {
	form := postForm{PubDate: a.posts.Now().Format(pubDateLayout), IsPublished: "on"}
	a.renderPostForm(c, http.StatusOK, form, nil, "")
}

// CreatePost 创建文章，作者强制为当前用户
func (a *API) CreatePost(c *gin.Context) {
	user := currentUser(c)

	input, form, err := a.bindPostInput(c)
	if err == nil {
		input.AuthorID = user.ID
		err = a.posts.Validate(input)
	}
	if err == nil {
		err = a.storeImage(c, &input)
	}
	if err != nil {
		a.postFormFailed(c, form, nil, err)
		return
	}

	if _, err := a.posts.Create(input); err != nil {
		a.discardImage(input.ImageURL)
		a.postFormFailed(c, form, nil, err)
		return
	}

	redirect(c, profileURL(user.Username))
}

// postFormFailed 表单错误重新渲染表单，其余错误返回 500
func (a *API) postFormFailed(c *gin.Context, form postForm, post *db.Post, err error) {
	if isInternal(err) {
		a.serverError(c, err)
		return
	}
	a.renderPostForm(c, http.StatusBadRequest, form, post, postErrorMessage(err))
}

// loadOwnPost 返回当前用户自己的文章；非作者会被重定向到详情页
func (a *API) loadOwnPost(c *gin.Context) (*db.Post, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return nil, false
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.NotFound(c)
			return nil, false
		}
		a.serverError(c, err)
		return nil, false
	}

	if post.AuthorID != viewerID(c) {
		redirect(c, postURL(post.ID))
		return nil, false
	}
	return post, true
}

// ShowPostEdit 渲染编辑表单
func (a *API) ShowPostEdit(c *gin.Context) {
	post, ok := a.loadOwnPost(c)
	if !ok {
		return
	}
	a.renderPostForm(c, http.StatusOK, postFormFrom(post), post, "")
}

// UpdatePost 更新文章后跳转到详情页
func (a *API) UpdatePost(c *gin.Context) {
	post, ok := a.loadOwnPost(c)
	if !ok {
		return
	}

	input, form, err := a.bindPostInput(c)
	if err == nil {
		err = a.posts.Validate(input)
	}
	if err == nil {
		err = a.storeImage(c, &input)
	}
	if err != nil {
		a.postFormFailed(c, form, post, err)
		return
	}

	if _, err := a.posts.Update(post.ID, input); err != nil {
		a.discardImage(input.ImageURL)
		a.postFormFailed(c, form, post, err)
		return
	}
	if input.ImageURL != "" && post.ImageURL != input.ImageURL {
		a.discardImage(post.ImageURL)
	}

	redirect(c, postURL(post.ID))
}

// ShowPostDelete 渲染删除确认页
func (a *API) ShowPostDelete(c *gin.Context) {
	post, ok := a.loadOwnPost(c)
	if !ok {
		return
	}
	a.renderHTML(c, http.StatusOK, "create.html", gin.H{
		"title":    "Удаление публикации",
		"post":     post,
		"form":     postFormFrom(post),
		"deleting": true,
	})
}

// DeletePost 删除文章后跳转到个人主页
func (a *API) DeletePost(c *gin.Context) {
	post, ok := a.loadOwnPost(c)
	if !ok {
		return
	}

	if err := a.posts.Delete(post.ID); err != nil && !errors.Is(err, service.ErrPostNotFound) {
		a.serverError(c, err)
		return
	}
	a.discardImage(post.ImageURL)

	redirect(c, profileURL(currentUser(c).Username))
}

func (a *API) bindPostInput(c *gin.Context) (service.PostInput, postForm, error) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return service.PostInput{}, form, service.MapFieldError(err, postFormErrors)
	}

	input := service.PostInput{
		Title:       form.Title,
		Text:        form.Text,
		IsPublished: checkboxChecked(form.IsPublished),
	}

	pubDate, err := parsePubDate(form.PubDate)
	if err != nil {
		return input, form, err
	}
	input.PubDate = pubDate

	if input.CategoryID, err = parseOptionalID(form.Category); err != nil {
		return input, form, service.ErrCategoryInvalid
	}
	if input.LocationID, err = parseOptionalID(form.Location); err != nil {
		return input, form, service.ErrLocationInvalid
	}
	return input, form, nil
}

// storeImage 保存可选的上传图片，应在表单校验通过后调用
func (a *API) storeImage(c *gin.Context, input *service.PostInput) error {
	file, err := c.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			log.Printf("[WARN] read image upload: %v", err)
		}
		return nil
	}

	stored, err := a.images.Save(file)
	if err != nil {
		return err
	}
	input.ImageURL = stored.URL
	input.ImageWidth = stored.Width
	input.ImageHeight = stored.Height
	return nil
}

func (a *API) discardImage(url string) {
	if url == "" {
		return
	}
	if err := a.images.Remove(url); err != nil {
		log.Printf("[WARN] remove image %s: %v", url, err)
	}
}

func postErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		return "Укажите заголовок"
	case errors.Is(err, service.ErrTitleTooLong):
		return "Заголовок не должен превышать 256 символов"
	case errors.Is(err, service.ErrTextRequired):
		return "Добавьте текст публикации"
	case errors.Is(err, service.ErrPubDateRequired):
		return "Укажите корректную дату публикации"
	case errors.Is(err, service.ErrCategoryInvalid):
		return "Выбранная категория не существует"
	case errors.Is(err, service.ErrLocationInvalid):
		return "Выбранное местоположение не существует"
	case errors.Is(err, service.ErrInvalidImage):
		return "Загрузите корректное изображение"
	}
	return "Проверьте правильность заполнения формы"
}

func isInternal(err error) bool {
	for _, known := range []error{
		service.ErrTitleRequired,
		service.ErrTitleTooLong,
		service.ErrTextRequired,
		service.ErrPubDateRequired,
		service.ErrCategoryInvalid,
		service.ErrLocationInvalid,
		service.ErrInvalidImage,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}
