package offers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/solucionalbania/club-api/internal/apps"
	"github.com/solucionalbania/club-api/internal/store"
)

// OfferService handles the partner offer catalogue and contact requests.
type OfferService struct {
	*apps.Records[PartnerOffer]
	contacts store.Collection[ContactMessage]
	now      func() time.Time
}

func NewOfferService(offers store.Collection[PartnerOffer], contacts store.Collection[ContactMessage]) *OfferService {
	return &OfferService{
		Records:  apps.NewRecords(offers),
		contacts: contacts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *OfferService) Create(ctx context.Context, req *CreateOfferRequest) (*PartnerOffer, error) {
	offer := &PartnerOffer{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Company:      req.Company,
		ImageURL:     req.ImageURL,
		Discount:     req.Discount,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		CreatedAt:    s.now(),
	}
	if err := s.Insert(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// Contact records an inquiry against an existing offer. Forwarding it to
// the partner is not done here.
func (s *OfferService) Contact(ctx context.Context, offerID string, req *ContactRequest) (*ContactMessage, error) {
	offer, err := s.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	msg := &ContactMessage{
		ID:          uuid.NewString(),
		OfferID:     offer.ID,
		Company:     offer.Company,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Message:     req.Message,
		CreatedAt:   s.now(),
	}
	if err := s.contacts.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	slog.Info("offer contact request stored", "offer_id", offer.ID, "action", "offer_contact")
	return msg, nil
}
