package community

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/models"
	"github.com/solucionalbania/club-api/internal/store"
)

var ErrNotAuthor = errors.New("only the author or a partner can delete this post")

// Actor is whoever asks for a post to be removed.
type Actor struct {
	UserID   string
	Role     string
	Operator bool
}

// PostService handles the community board.
type PostService struct {
	*apps.Records[Post]
	now func() time.Time
}

func NewPostService(posts store.Collection[Post]) *PostService {
	return &PostService{
		Records: apps.NewRecords(posts),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) Create(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	post := &Post{
		ID:         uuid.NewString(),
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Title:      req.Title,
		Body:       req.Body,
		Email:      req.Email,
		Phone:      req.Phone,
		City:       req.City,
		CreatedAt:  s.now(),
	}
	if err := s.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteAs removes a post when the actor wrote it, is a partner, or is the
// operator.
func (s *PostService) DeleteAs(ctx context.Context, id string, actor Actor) error {
	if !actor.Operator && actor.Role != models.RolePartner {
		post, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if post.AuthorID == "" || post.AuthorID != actor.UserID {
			return ErrNotAuthor
		}
	}
	return s.Delete(ctx, id)
}
