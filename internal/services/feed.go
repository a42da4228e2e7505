package services

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/utils"
)

// Feed is one page of posts plus its pagination metadata.
type Feed struct {
	Posts []models.Post
	Page  utils.Page
}

// GroupFeed is a group's page of posts.
type GroupFeed struct {
	Feed
	Group *models.Group
}

// ProfileFeed is an author's page of posts and whether the viewer follows them.
type ProfileFeed struct {
	Feed
	Author    *models.User
	PostCount int64
	Following bool
}

// FollowChecker answers whether one user follows another.
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
}

// FeedService composes the newest-first post feeds.
type FeedService struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	follows FollowChecker
	perPage int
}

// NewFeedService creates a feed service. perPage below 1 uses utils.PostsPerPage.
func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows FollowChecker,
	perPage int,
) *FeedService {
	if perPage < 1 {
		perPage = utils.PostsPerPage
	}
	return &FeedService{posts: posts, groups: groups, users: users, follows: follows, perPage: perPage}
}

// page counts, resolves the requested page, then loads only that slice.
func (s *FeedService) page(
	ctx context.Context,
	rawPage string,
	count func(context.Context) (int64, error),
	load func(ctx context.Context, offset, limit int) ([]models.Post, error),
) (Feed, error) {
	total, err := count(ctx)
	if err != nil {
		return Feed{}, err
	}
	page := utils.NewPage(total, rawPage, s.perPage)
	if total == 0 {
		return Feed{Posts: []models.Post{}, Page: page}, nil
	}
	posts, err := load(ctx, page.Offset(), page.Limit())
	if err != nil {
		return Feed{}, err
	}
	return Feed{Posts: posts, Page: page}, nil
}

// Home returns every post.
func (s *FeedService) Home(ctx context.Context, rawPage string) (Feed, error) {
	return s.page(ctx, rawPage, s.posts.CountAll, s.posts.ListAll)
}

// Group returns the posts in the group with slug.
func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	feed, err := s.page(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountByGroup(ctx, group.ID) },
		func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return s.posts.PostsByGroup(ctx, group.ID, offset, limit)
		})
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Feed: feed, Group: group}, nil
}

// Profile returns username's posts. viewerID 0 means anonymous.
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint, rawPage string) (*ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	feed, err := s.page(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return s.posts.PostsByAuthor(ctx, author.ID, offset, limit)
		})
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{
		Feed:      feed,
		Author:    author,
		PostCount: feed.Page.Total,
		Following: following,
	}, nil
}

// Following returns posts by every author viewerID follows.
func (s *FeedService) Following(ctx context.Context, viewerID uint, rawPage string) (Feed, error) {
	return s.page(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.posts.CountFollowedBy(ctx, viewerID) },
		func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return s.posts.PostsFollowedBy(ctx, viewerID, offset, limit)
		})
}
