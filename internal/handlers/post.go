package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	feeds    *services.FeedService
	posts    *services.PostService
	comments *services.CommentService
}

func NewPostHandler(feeds *services.FeedService, posts *services.PostService, comments *services.CommentService) *PostHandler {
	return &PostHandler{feeds: feeds, posts: posts, comments: comments}
}

// Index is the home feed.
func (h *PostHandler) Index(c *gin.Context) {
	feed, err := h.feeds.Home(c.Request.Context(), c.Query("page"))
	if err != nil {
		RenderAppError(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/index.html", gin.H{
		"Title": "Последние обновления на сайте",
		"Posts": feed.Posts,
		"Page":  feed.Page,
		"Index": true,
	})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	feed, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		RenderAppError(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Title": "Записи сообщества " + feed.Group.Title,
		"Group": feed.Group,
		"Posts": feed.Posts,
		"Page":  feed.Page,
	})
}

func (h *PostHandler) Profile(c *gin.Context) {
	feed, err := h.feeds.Profile(c.Request.Context(), c.Param("username"), middleware.CurrentUserID(c), c.Query("page"))
	if err != nil {
		RenderAppError(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Title":     "Профайл пользователя " + feed.Author.FullName(),
		"Author":    feed.Author,
		"PostCount": feed.PostCount,
		"Following": feed.Following,
		"Posts":     feed.Posts,
		"Page":      feed.Page,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.renderDetail(c, http.StatusOK, id, &forms.CommentForm{}, nil)
}

func (h *PostHandler) renderDetail(c *gin.Context, code int, id uint, form *forms.CommentForm, errs forms.FieldErrors) {
	post, comments, err := h.posts.Detail(c.Request.Context(), id)
	if err != nil {
		RenderAppError(c, err)
		return
	}
	Render(c, code, "posts/post_detail.html", gin.H{
		"Title":    "Пост " + post.String(),
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   errs,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, &forms.PostForm{}, nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	in, err := bindPost(c)
	if err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.posts.Create(c.Request.Context(), user.ID, in); err != nil {
		var errs forms.FieldErrors
		if errors.As(err, &errs) {
			h.renderForm(c, http.StatusBadRequest, nil, &in.Form, errs)
			return
		}
		RenderAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", user.Username))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.posts.Editable(c.Request.Context(), middleware.CurrentUserID(c), id)
	if errors.Is(err, services.ErrNotAuthor) {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		RenderAppError(c, err)
		return
	}

	form := &forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = fmt.Sprint(*post.GroupID)
	}
	h.renderForm(c, http.StatusOK, post, form, nil)
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, err := bindPost(c)
	if err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.CurrentUserID(c), id, in)
	if errors.Is(err, services.ErrNotAuthor) {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		var errs forms.FieldErrors
		if errors.As(err, &errs) {
			h.renderForm(c, http.StatusBadRequest, post, &in.Form, errs)
			return
		}
		RenderAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// AddComment always ends on the post page; invalid comments are dropped.
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var form forms.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}

	_, err := h.comments.Add(c.Request.Context(), middleware.CurrentUserID(c), id, &form)
	var errs forms.FieldErrors
	if err != nil && !errors.As(err, &errs) {
		RenderAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// renderForm shows the create form, or the edit form when post is set.
func (h *PostHandler) renderForm(c *gin.Context, code int, post *models.Post, form *forms.PostForm, errs forms.FieldErrors) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		RenderAppError(c, err)
		return
	}
	title := "Новый пост"
	if post != nil {
		title = "Редактировать пост"
	}
	Render(c, code, "posts/create_post.html", gin.H{
		"Title":  title,
		"IsEdit": post != nil,
		"Post":   post,
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
	})
}

func bindPost(c *gin.Context) (*services.PostInput, error) {
	in := &services.PostInput{}
	if err := c.ShouldBind(&in.Form); err != nil {
		return nil, err
	}
	if header, err := c.FormFile("image"); err == nil {
		in.Image = header
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return in, nil
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
