package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost_StringTruncatesText(t *testing.T) {
	p := &Post{Text: "This is a test text post"}
	assert.Equal(t, "This is a test ", p.String())

	short := &Post{Text: "Короткий"}
	assert.Equal(t, "Короткий", short.String())
}

func TestGroup_String(t *testing.T) {
	g := &Group{Title: "Test group", Slug: "test_slug"}
	assert.Equal(t, "Test group", g.String())
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"both names", User{Username: "darth", FirstName: "Anakin", LastName: "Skywalker"}, "Anakin Skywalker"},
		{"first only", User{Username: "darth", FirstName: "Anakin"}, "Anakin"},
		{"last only", User{Username: "darth", LastName: "Skywalker"}, "Skywalker"},
		{"no names", User{Username: "darth"}, "darth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error: boom", err.Error())

	nf := NewNotFoundError("Post", 7)
	assert.True(t, IsNotFound(nf))
	assert.Equal(t, "Post 7 not found", nf.Error())
	assert.False(t, IsNotFound(NewValidationError("bad")))
	assert.False(t, IsNotFound(cause))
}
