package handlers

import (
	"errors"
	"net/http"
	"strings"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users  repository.UserRepository
	resets *services.PasswordResetService
}

func NewAuthHandler(users repository.UserRepository, resets *services.PasswordResetService) *AuthHandler {
	return &AuthHandler{users: users, resets: resets}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{"Title": "Зарегистрироваться", "Form": &forms.SignupForm{}})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var form forms.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}
	renderFail := func(errs forms.FieldErrors) {
		form.Password1, form.Password2 = "", ""
		Render(c, http.StatusBadRequest, "users/signup.html", gin.H{"Title": "Зарегистрироваться", "Form": &form, "Errors": errs})
	}

	if errs := form.Validate(); errs != nil {
		renderFail(errs)
		return
	}

	ctx := c.Request.Context()
	taken, err := h.users.UsernameTaken(ctx, form.Username)
	if err != nil {
		RenderAppError(c, err)
		return
	}
	if taken {
		errs := forms.FieldErrors{}
		errs.Add("username", "A user with that username already exists.")
		renderFail(errs)
		return
	}

	hash, err := utils.HashPassword(form.Password1)
	if err != nil {
		RenderAppError(c, models.NewInternalError(err))
		return
	}
	user := &models.User{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  hash,
	}
	if err := h.users.Create(ctx, user); err != nil {
		RenderAppError(c, err)
		return
	}
	log.WithField("user_id", user.ID).Info("user signed up")

	if err := middleware.Login(c, user); err != nil {
		RenderAppError(c, models.NewInternalError(err))
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"Title": "Войти",
		"Form":  &forms.LoginForm{Next: c.Query("next")},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}
	renderFail := func(errs forms.FieldErrors) {
		form.Password = ""
		Render(c, http.StatusBadRequest, "users/login.html", gin.H{"Title": "Войти", "Form": &form, "Errors": errs})
	}

	if errs := form.Validate(); errs != nil {
		renderFail(errs)
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), form.Username)
	if err != nil && !models.IsNotFound(err) {
		RenderAppError(c, err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		errs := forms.FieldErrors{}
		errs.Add(forms.NonField, "Please enter a correct username and password.")
		renderFail(errs)
		return
	}

	if err := middleware.Login(c, user); err != nil {
		RenderAppError(c, models.NewInternalError(err))
		return
	}
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// Logout ends the session and shows the logged-out page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		log.WithError(err).Warn("failed to clear session")
	}
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", gin.H{"Title": "Вы вышли из системы"})
}

func (h *AuthHandler) ShowPasswordChange(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_form.html", gin.H{"Title": "Изменить пароль"})
}

func (h *AuthHandler) PasswordChange(c *gin.Context) {
	var form forms.PasswordChangeForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}
	renderFail := func(errs forms.FieldErrors) {
		Render(c, http.StatusBadRequest, "users/password_change_form.html", gin.H{"Title": "Изменить пароль", "Errors": errs})
	}

	if errs := form.Validate(); errs != nil {
		renderFail(errs)
		return
	}

	user := middleware.CurrentUser(c)
	if !utils.CheckPasswordHash(form.OldPassword, user.Password) {
		errs := forms.FieldErrors{}
		errs.Add("old_password", "Your old password was entered incorrectly. Please enter it again.")
		renderFail(errs)
		return
	}

	hash, err := utils.HashPassword(form.NewPassword1)
	if err != nil {
		RenderAppError(c, models.NewInternalError(err))
		return
	}
	user.Password = hash
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		RenderAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/auth/password_change/done/")
}

func (h *AuthHandler) PasswordChangeDone(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_done.html", gin.H{"Title": "Пароль изменён"})
}

func (h *AuthHandler) ShowPasswordReset(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_form.html", gin.H{"Title": "Сброс пароля", "Form": &forms.PasswordResetForm{}})
}

// PasswordReset mails reset links. The response is the same whether or not
// the address belongs to anyone.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var form forms.PasswordResetForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}
	if errs := form.Validate(); errs != nil {
		Render(c, http.StatusBadRequest, "users/password_reset_form.html", gin.H{"Title": "Сброс пароля", "Form": &form, "Errors": errs})
		return
	}

	sent, err := h.resets.Request(c.Request.Context(), form.Email, siteURL(c))
	if err != nil {
		RenderAppError(c, err)
		return
	}
	log.WithField("sent", sent).Info("password reset requested")
	c.Redirect(http.StatusFound, "/auth/password_reset/done/")
}

func (h *AuthHandler) PasswordResetDone(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_done.html", gin.H{"Title": "Письмо отправлено"})
}

// ShowPasswordResetConfirm shows the new-password form, or an invalid-link
// notice when the link is bad.
func (h *AuthHandler) ShowPasswordResetConfirm(c *gin.Context) {
	c.Header("Referrer-Policy", "no-referrer")
	_, err := h.resets.Resolve(c.Request.Context(), c.Param("uidb64"), c.Param("token"))
	if err != nil && !errors.Is(err, services.ErrInvalidResetLink) {
		RenderAppError(c, err)
		return
	}
	Render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{
		"Title":     "Новый пароль",
		"ValidLink": err == nil,
	})
}

func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	c.Header("Referrer-Policy", "no-referrer")
	var form forms.SetPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	uidb64, token := c.Param("uidb64"), c.Param("token")
	if _, err := h.resets.Resolve(ctx, uidb64, token); err != nil {
		if !errors.Is(err, services.ErrInvalidResetLink) {
			RenderAppError(c, err)
			return
		}
		Render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{"Title": "Новый пароль", "ValidLink": false})
		return
	}
	if errs := form.Validate(); errs != nil {
		Render(c, http.StatusBadRequest, "users/password_reset_confirm.html", gin.H{
			"Title":     "Новый пароль",
			"ValidLink": true,
			"Errors":    errs,
		})
		return
	}

	user, err := h.resets.SetPassword(ctx, uidb64, token, form.NewPassword1)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResetLink) {
			Render(c, http.StatusOK, "users/password_reset_confirm.html", gin.H{"Title": "Новый пароль", "ValidLink": false})
			return
		}
		RenderAppError(c, err)
		return
	}
	log.WithField("user_id", user.ID).Info("password reset")
	c.Redirect(http.StatusFound, "/auth/reset/done/")
}

func (h *AuthHandler) PasswordResetComplete(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_reset_complete.html", gin.H{"Title": "Пароль восстановлен"})
}

// safeNext only allows local absolute paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
