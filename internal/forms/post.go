package forms

import (
	"strings"

	"yatube/internal/utils"
)

// PostForm is the create/edit post form. Group holds the raw select value:
// empty for "no group", otherwise a group id.
type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group"`
}

// Validate trims the text and checks the fields. The group id is only
// checked for shape here; whether it exists is up to the caller.
func (f *PostForm) Validate() FieldErrors {
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)

	errs := check(f)
	if f.Group != "" {
		if _, ok := utils.ParseID(f.Group); !ok {
			errs.Add("group", "Select a valid choice.")
		}
	}
	return errs.orNil()
}

// GroupID returns the selected group id, or nil for "no group".
func (f *PostForm) GroupID() *uint {
	id, ok := utils.ParseID(f.Group)
	if !ok {
		return nil
	}
	return &id
}

// CommentForm is the add-comment form.
type CommentForm struct {
	Text string `form:"text" validate:"required,max=5000"`
}

// Clean validates the form and returns the text to store after passing it
// through censor. censor may be nil.
func (f *CommentForm) Clean(censor func(string) string) (string, FieldErrors) {
	f.Text = strings.TrimSpace(f.Text)
	if errs := check(f).orNil(); errs != nil {
		return "", errs
	}
	if censor == nil {
		return f.Text, nil
	}
	return censor(f.Text), nil
}
