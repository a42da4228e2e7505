package web

import (
	"io/fs"
	"net/http/httptest"
	"testing"
	"time"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_EveryView(t *testing.T) {
	r, err := LoadTemplates()
	require.NoError(t, err)

	page := utils.NewPage(1, "", utils.PostsPerPage)
	post := models.Post{ID: 1, Text: "hello world", Author: models.User{ID: 1, Username: "darth"}, CreatedAt: time.Now()}
	data := gin.H{
		"Title":       "t",
		"CurrentPath": "/",
		"Year":        2024,
		"Posts":       []models.Post{post},
		"Page":        page,
		"Group":       &models.Group{Title: "g", Slug: "g"},
		"Author":      &models.User{ID: 1, Username: "darth"},
		"Post":        &post,
	}

	viewForms := map[string]interface{}{
		"posts/create_post.html": &forms.PostForm{Text: "x", Group: "1"},
		"posts/post_detail.html": &forms.CommentForm{},
		"users/signup.html":      &forms.SignupForm{},
		"users/login.html":       &forms.LoginForm{Next: "/create/"},

		"users/password_reset_form.html": &forms.PasswordResetForm{},
	}

	for name := range Views {
		t.Run(name, func(t *testing.T) {
			view := gin.H{"Form": viewForms[name]}
			for k, v := range data {
				view[k] = v
			}
			w := httptest.NewRecorder()
			require.NoError(t, r.Instance(name, view).Render(w), name)
			assert.Contains(t, w.Body.String(), "<html")
		})
	}
}

func TestPostCard_RendersTextAndGroup(t *testing.T) {
	r, err := LoadTemplates()
	require.NoError(t, err)

	group := &models.Group{ID: 2, Title: "Test group", Slug: "test_slug"}
	post := models.Post{
		ID:           5,
		Text:         "Тестовый текст",
		Author:       models.User{Username: "darth", FirstName: "Darth", LastName: "Vader"},
		Group:        group,
		Image:        "posts/a.png",
		CommentCount: 3,
	}

	w := httptest.NewRecorder()
	err = r.Instance("posts/index.html", gin.H{
		"Title": "home",
		"Posts": []models.Post{post},
		"Page":  utils.NewPage(1, "", 10),
	}).Render(w)
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "Тестовый текст")
	assert.Contains(t, body, `href="/group/test_slug/"`)
	assert.Contains(t, body, "Darth Vader")
	assert.Contains(t, body, `src="/media/posts/a.png"`)
	assert.Contains(t, body, "Комментариев: 3")
}

func TestFuncMap_Dict(t *testing.T) {
	dict := FuncMap()["dict"].(func(...interface{}) (map[string]interface{}, error))
	m, err := dict("a", 1, "b", "x")
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}

func TestPasswordResetConfirm_ValidAndInvalidLink(t *testing.T) {
	r, err := LoadTemplates()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("users/password_reset_confirm.html", gin.H{
		"CurrentPath": "/auth/reset/MQ/tok/",
		"ValidLink":   true,
	}).Render(w))
	assert.Contains(t, w.Body.String(), `action="/auth/reset/MQ/tok/"`)
	assert.Contains(t, w.Body.String(), `name="new_password1"`)

	w = httptest.NewRecorder()
	require.NoError(t, r.Instance("users/password_reset_confirm.html", gin.H{"ValidLink": false}).Render(w))
	assert.NotContains(t, w.Body.String(), `name="new_password1"`)
	assert.Contains(t, w.Body.String(), `class="invalid-link"`)
}

func TestEmailFS_HasPasswordResetTemplates(t *testing.T) {
	for _, name := range []string{"password_reset_subject.txt", "password_reset_email.txt"} {
		_, err := fs.Stat(EmailFS(), name)
		assert.NoError(t, err, name)
	}
}
