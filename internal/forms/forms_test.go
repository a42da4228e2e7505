package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      PostForm
		wantField string
	}{
		{"Valid Without Group", PostForm{Text: "hello"}, ""},
		{"Valid With Group", PostForm{Text: "hello", Group: "3"}, ""},
		{"Blank Text", PostForm{Text: "   \n"}, "text"},
		{"Bad Group", PostForm{Text: "hello", Group: "abc"}, "group"},
		{"Zero Group", PostForm{Text: "hello", Group: "0"}, "group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if tt.wantField == "" {
				assert.Nil(t, errs)
			} else {
				require.NotNil(t, errs)
				assert.True(t, errs.Has(tt.wantField), errs.Error())
			}
		})
	}
}

func TestPostForm_GroupID(t *testing.T) {
	f := PostForm{Text: "x", Group: "7"}
	require.NotNil(t, f.GroupID())
	assert.EqualValues(t, 7, *f.GroupID())

	f.Group = ""
	assert.Nil(t, f.GroupID())
}

func TestCommentForm_CleanRunsCensor(t *testing.T) {
	f := CommentForm{Text: "  Донцова  "}
	text, errs := f.Clean(func(s string) string { return strings.Repeat("*", len([]rune(s))) })
	assert.Nil(t, errs)
	assert.Equal(t, "*******", text)
}

func TestCommentForm_CleanRejectsEmpty(t *testing.T) {
	called := false
	f := CommentForm{Text: " "}
	_, errs := f.Clean(func(s string) string { called = true; return s })
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required.", errs.First("text"))
	assert.False(t, called, "censor must not run on invalid input")
}

func TestSignupForm_Validate(t *testing.T) {
	valid := SignupForm{Username: "darth", Email: "d@example.com", Password1: "deathstar1", Password2: "deathstar1"}
	assert.Nil(t, valid.Validate())

	mismatch := valid
	mismatch.Password2 = "other-pass"
	errs := mismatch.Validate()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("password2"))

	badName := valid
	badName.Username = "darth vader"
	errs = badName.Validate()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("username"))

	badEmail := valid
	badEmail.Email = "not-an-email"
	errs = badEmail.Validate()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("email"))

	noEmail := valid
	noEmail.Email = ""
	assert.Nil(t, noEmail.Validate())
}

func TestLoginAndPasswordChangeForms(t *testing.T) {
	login := LoginForm{Username: " darth ", Password: "x"}
	assert.Nil(t, login.Validate())
	assert.Equal(t, "darth", login.Username)

	errs := (&LoginForm{}).Validate()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("password"))

	pc := PasswordChangeForm{OldPassword: "old", NewPassword1: "short", NewPassword2: "short"}
	errs = pc.Validate()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("new_password1"))
}

func TestPasswordResetForms(t *testing.T) {
	reset := PasswordResetForm{Email: " darth@example.com "}
	assert.Nil(t, reset.Validate())
	assert.Equal(t, "darth@example.com", reset.Email)

	errs := (&PasswordResetForm{Email: "not-an-address"}).Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Enter a valid email address.", errs.First("email"))

	set := SetPasswordForm{NewPassword1: "brand-new-pass", NewPassword2: "other-new-pass"}
	errs = set.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "The two password fields didn't match.", errs.First("new_password2"))

	set.NewPassword2 = set.NewPassword1
	assert.Nil(t, set.Validate())
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("text", "a")
	errs.Add("group", "b")
	errs.Add("text", "c")
	assert.Equal(t, "group: b, text: a; c", errs.Error())
	assert.Equal(t, "", errs.First("missing"))
}
