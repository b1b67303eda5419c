package daynews

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/store"
)

type NewsService struct {
	*apps.Records[Item]
	now func() time.Time
}

func NewNewsService(items store.Collection[Item]) *NewsService {
	return &NewsService{
		Records: apps.NewRecords(items),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *NewsService) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	item := &Item{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Body:       req.Body,
		ImageURL:   req.ImageURL,
		AuthorName: req.AuthorName,
		CreatedAt:  s.now(),
	}
	if err := s.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
