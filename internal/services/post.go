package services

import (
	"context"
	"errors"
	"mime/multipart"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ErrNotAuthor is returned when someone other than the author edits a post.
var ErrNotAuthor = errors.New("only the author can edit this post")

// ChangeHook runs after content visible on cached pages changes.
type ChangeHook func(ctx context.Context)

// PostInput is a submitted post form plus its optional image upload.
type PostInput struct {
	Form  forms.PostForm
	Image *multipart.FileHeader
}

// PostService creates, edits and loads posts.
type PostService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	media    *MediaStore
	onChange ChangeHook
}

// NewPostService creates a post service. media and onChange may be nil.
func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	media *MediaStore,
	onChange ChangeHook,
) *PostService {
	return &PostService{posts: posts, groups: groups, comments: comments, media: media, onChange: onChange}
}

// Groups lists the choices for the form's group select.
func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}

// Detail loads a post with its comments, oldest comment first.
func (s *PostService) Detail(ctx context.Context, id uint) (*models.Post, []models.Comment, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// Create validates in and stores a new post by authorID. Validation
// failures come back as forms.FieldErrors.
func (s *PostService) Create(ctx context.Context, authorID uint, in *PostInput) (*models.Post, error) {
	post := &models.Post{AuthorID: authorID}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"post_id": post.ID, "author_id": authorID}).Info("post created")
	s.changed(ctx)
	return post, nil
}

// Editable loads a post for editing by editorID.
func (s *PostService) Editable(ctx context.Context, editorID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != editorID {
		return post, ErrNotAuthor
	}
	return post, nil
}

// Update applies in to an existing post. A missing image upload keeps the
// current image.
func (s *PostService) Update(ctx context.Context, editorID, postID uint, in *PostInput) (*models.Post, error) {
	post, err := s.Editable(ctx, editorID, postID)
	if err != nil {
		return post, err
	}
	if err := s.apply(ctx, post, in); err != nil {
		return post, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"post_id": post.ID, "author_id": editorID}).Info("post updated")
	s.changed(ctx)
	return post, nil
}

func (s *PostService) apply(ctx context.Context, post *models.Post, in *PostInput) error {
	if errs := in.Form.Validate(); errs != nil {
		return errs
	}

	groupID := in.Form.GroupID()
	if groupID != nil {
		if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
			if models.IsNotFound(err) {
				errs := forms.FieldErrors{}
				errs.Add("group", "Select a valid choice. That choice is not one of the available choices.")
				return errs
			}
			return err
		}
	}

	if in.Image != nil && s.media != nil {
		rel, err := s.media.SavePostImage(in.Image)
		if err != nil {
			if errors.Is(err, ErrNotImage) || errors.Is(err, ErrImageTooLarge) {
				errs := forms.FieldErrors{}
				errs.Add("image", err.Error())
				return errs
			}
			return models.NewInternalError(err)
		}
		post.Image = rel
	}

	post.Text = in.Form.Text
	post.GroupID = groupID
	post.Group = nil
	return nil
}

func (s *PostService) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
