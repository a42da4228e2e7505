package handlers

import (
	"context"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	feeds   *services.FeedService
	follows *services.FollowService
	users   repository.UserRepository
}

func NewFollowHandler(feeds *services.FeedService, follows *services.FollowService, users repository.UserRepository) *FollowHandler {
	return &FollowHandler{feeds: feeds, follows: follows, users: users}
}

// Index is the feed of authors the current user follows.
func (h *FollowHandler) Index(c *gin.Context) {
	feed, err := h.feeds.Following(c.Request.Context(), middleware.CurrentUserID(c), c.Query("page"))
	if err != nil {
		RenderAppError(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title":  "Избранные авторы",
		"Posts":  feed.Posts,
		"Page":   feed.Page,
		"Follow": true,
	})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	h.toggle(c, h.follows.Follow)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	h.toggle(c, h.follows.Unfollow)
}

func (h *FollowHandler) toggle(c *gin.Context, apply func(ctx context.Context, followerID, targetID uint) error) {
	username := c.Param("username")
	author, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		RenderAppError(c, err)
		return
	}
	if err := apply(c.Request.Context(), middleware.CurrentUserID(c), author.ID); err != nil {
		RenderAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}
