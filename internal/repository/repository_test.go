package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Lookups(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewUserRepository(conn)

	user := testutil.CreateUser(t, conn, "darth")

	got, err := repo.GetByUsername(ctx, "darth")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "darth", got.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))

	taken, err := repo.UsernameTaken(ctx, "darth")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.UsernameTaken(ctx, "luke")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_ListByEmail(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewUserRepository(conn)

	darth := testutil.CreateUser(t, conn, "darth")
	require.NoError(t, repo.Create(ctx, &models.User{Username: "noemail", Password: "x"}))

	users, err := repo.ListByEmail(ctx, "DARTH@Example.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, darth.ID, users[0].ID)

	users, err = repo.ListByEmail(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, users, "blank address never matches accounts without email")

	users, err = repo.ListByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGroupRepository(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewGroupRepository(conn)

	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Zeta", Slug: "zeta"}))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Alpha", Slug: "alpha"}))

	g, err := repo.GetBySlug(ctx, "zeta")
	require.NoError(t, err)
	assert.Equal(t, "Zeta", g.Title)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.True(t, models.IsNotFound(err))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Alpha", groups[0].Title)
}

func TestPostRepository_NewestFirstWithTieBreak(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewPostRepository(conn)
	author := testutil.CreateUser(t, conn, "darth")

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	older := testutil.CreatePostAt(t, conn, author, "older", at.Add(-time.Hour))
	tieA := testutil.CreatePostAt(t, conn, author, "tie a", at)
	tieB := testutil.CreatePostAt(t, conn, author, "tie b", at)

	posts, err := repo.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{tieB.ID, tieA.ID, older.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, "darth", posts[0].Author.Username)
}

func TestPostRepository_FiltersAndCounts(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewPostRepository(conn)

	darth := testutil.CreateUser(t, conn, "darth")
	luke := testutil.CreateUser(t, conn, "luke")
	g1 := testutil.CreateGroup(t, conn, "Test group", "test_slug")
	g2 := testutil.CreateGroup(t, conn, "Other group", "test_slug2")

	post := testutil.CreatePost(t, conn, darth, g1, "Тестовый текст")
	testutil.CreatePost(t, conn, luke, nil, "luke's post")

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	inGroup, err := repo.PostsByGroup(ctx, g1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.Equal(t, post.ID, inGroup[0].ID)
	require.NotNil(t, inGroup[0].Group)
	assert.Equal(t, "test_slug", inGroup[0].Group.Slug)

	empty, err := repo.PostsByGroup(ctx, g2.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
	n, err := repo.CountByGroup(ctx, g2.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	byAuthor, err := repo.PostsByAuthor(ctx, darth.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	n, err = repo.CountByAuthor(ctx, darth.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPostRepository_OffsetAndLimit(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewPostRepository(conn)
	author := testutil.CreateUser(t, conn, "darth")
	for i := 0; i < 14; i++ {
		testutil.CreatePost(t, conn, author, nil, fmt.Sprintf("post %d", i))
	}

	first, err := repo.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	second, err := repo.ListAll(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 4)
	assert.Equal(t, "post 0", second[3].Text)
}

func TestPostRepository_UpdateGetDelete(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewPostRepository(conn)
	comments := NewCommentRepository(conn)
	author := testutil.CreateUser(t, conn, "darth")
	group := testutil.CreateGroup(t, conn, "Test group", "test_slug")
	post := testutil.CreatePost(t, conn, author, group, "before")

	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "hi"}))

	post.Text = "after"
	post.GroupID = nil
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, 1, got.CommentCount)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, post.ID)))
}

func TestCommentRepository_OldestFirst(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewCommentRepository(conn)
	author := testutil.CreateUser(t, conn, "darth")
	post := testutil.CreatePost(t, conn, author, nil, "text")

	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "second"}))

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "darth", list[1].Author.Username)
}

func TestFollowRepository_CreateIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewFollowRepository(conn)
	a := testutil.CreateUser(t, conn, "follower")
	b := testutil.CreateUser(t, conn, "author")

	created, err := repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, conn.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	removed, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowRepository_ConcurrentCreateLeavesOneEdge(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	repo := NewFollowRepository(conn)
	a := testutil.CreateUser(t, conn, "follower")
	b := testutil.CreateUser(t, conn, "author")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, a.ID, b.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	var count int64
	require.NoError(t, conn.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostRepository_FollowedBy(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := testutil.Ctx(t)
	posts := NewPostRepository(conn)
	follows := NewFollowRepository(conn)

	reader := testutil.CreateUser(t, conn, "reader")
	author := testutil.CreateUser(t, conn, "author")
	stranger := testutil.CreateUser(t, conn, "stranger")
	testutil.CreatePost(t, conn, author, nil, "followed")
	testutil.CreatePost(t, conn, stranger, nil, "not followed")

	feed, err := posts.PostsFollowedBy(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = follows.Create(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	feed, err = posts.PostsFollowedBy(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "followed", feed[0].Text)
	total, err := posts.CountFollowedBy(ctx, reader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
