// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user made by CreateUser.
const Password = "test-pass-123"

// NewDB returns a migrated in-memory sqlite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: username + "@example.com", Password: hash}
	require.NoError(t, conn.Create(user).Error)
	return user
}

// CreateGroup inserts a group with the given slug.
func CreateGroup(t *testing.T, conn *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: "Test description"}
	require.NoError(t, conn.Create(group).Error)
	return group
}

// CreatePost inserts a post. group may be nil.
func CreatePost(t *testing.T, conn *gorm.DB, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, conn.Omit("Author", "Group").Create(post).Error)
	return post
}

// CreatePostAt inserts a post with a fixed creation time.
func CreatePostAt(t *testing.T, conn *gorm.DB, author *models.User, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: at}
	require.NoError(t, conn.Omit("Author", "Group").Create(post).Error)
	return post
}

// Ctx returns a context bound to the test's lifetime.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
