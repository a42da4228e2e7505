package forms

import "strings"

// SignupForm is the registration form.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func (f *SignupForm) Validate() FieldErrors {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return check(f).orNil()
}

// LoginForm is the login form. Next is the page to return to afterwards.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f).orNil()
}

// PasswordChangeForm is the change-password form for a logged-in user.
type PasswordChangeForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required,min=8,max=128"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

func (f *PasswordChangeForm) Validate() FieldErrors {
	return check(f).orNil()
}

// PasswordResetForm asks for the address a reset link is mailed to.
type PasswordResetForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

func (f *PasswordResetForm) Validate() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	return check(f).orNil()
}

// SetPasswordForm sets a new password from a reset link.
type SetPasswordForm struct {
	NewPassword1 string `form:"new_password1" validate:"required,min=8,max=128"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

func (f *SetPasswordForm) Validate() FieldErrors {
	return check(f).orNil()
}
