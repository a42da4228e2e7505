package services

import (
	"context"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/repository"
)

// CommentObserver is told about each stored comment.
type CommentObserver interface {
	CommentCreated(censored bool)
}

// CommentService adds comments to posts. Text is censored before it is
// stored and never touched again.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	censor   *Censor
	observer CommentObserver
	onChange ChangeHook
}

// NewCommentService creates a comment service. observer and onChange may be nil.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	censor *Censor,
	observer CommentObserver,
	onChange ChangeHook,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, censor: censor, observer: observer, onChange: onChange}
}

// Add stores a comment by authorID on postID. An unknown post is a
// not-found error; invalid text comes back as forms.FieldErrors.
func (s *CommentService) Add(ctx context.Context, authorID, postID uint, form *forms.CommentForm) (*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	var sanitize func(string) string
	if s.censor != nil {
		sanitize = s.censor.Sanitize
	}
	text, errs := form.Clean(sanitize)
	if errs != nil {
		return nil, errs
	}

	comment := &models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.observer != nil {
		s.observer.CommentCreated(text != form.Text)
	}
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return comment, nil
}
