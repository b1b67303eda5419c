package offers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solucionalbania/club-api/internal/services"
	"github.com/solucionalbania/club-api/internal/store"
)

func newTestService() (*OfferService, *store.MemoryCollection[ContactMessage]) {
	contacts := store.NewMemoryCollection[ContactMessage]()
	return NewOfferService(store.NewMemoryCollection[PartnerOffer](), contacts), contacts
}

func TestCreateOffer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	offer, err := svc.Create(ctx, &CreateOfferRequest{
		Title:       "20% off",
		Description: "On every dinner",
		Company:     "Taverna Durrës",
		Discount:    "20%",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, offer.ID)
	assert.False(t, offer.CreatedAt.IsZero())

	got, err := svc.Get(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, offer, got)
}

func TestContactSnapshotsCompany(t *testing.T) {
	svc, contacts := newTestService()
	ctx := context.Background()

	offer, err := svc.Create(ctx, &CreateOfferRequest{Title: "Gym", Description: "Free month", Company: "FitTirana"})
	require.NoError(t, err)

	msg, err := svc.Contact(ctx, offer.ID, &ContactRequest{
		OfferID:     "ignored",
		SenderName:  "Ana",
		SenderEmail: "ana@example.com",
		Message:     "Is it valid on weekends?",
	})
	require.NoError(t, err)
	assert.Equal(t, offer.ID, msg.OfferID)
	assert.Equal(t, "FitTirana", msg.Company)
	assert.Equal(t, 1, contacts.Len())

	// Removing the offer leaves the stored message intact.
	require.NoError(t, svc.Delete(ctx, offer.ID))
	stored, err := contacts.FindOne(ctx, store.Filter{"id": msg.ID})
	require.NoError(t, err)
	assert.Equal(t, "FitTirana", stored.Company)
}

func TestContactMissingOffer(t *testing.T) {
	svc, contacts := newTestService()

	_, err := svc.Contact(context.Background(), "missing", &ContactRequest{
		SenderName: "Ana", SenderEmail: "ana@example.com", Message: "hi",
	})
	assert.ErrorIs(t, err, services.ErrRecordNotFound)
	assert.Equal(t, 0, contacts.Len())
}

func TestCreateOfferRequestValidate(t *testing.T) {
	valid := CreateOfferRequest{Title: "t", Description: "d", Company: "c"}
	assert.NoError(t, valid.Validate())

	missingCompany := valid
	missingCompany.Company = ""
	assert.Error(t, missingCompany.Validate())

	badEmail := valid
	badEmail.ContactEmail = "not-an-email"
	assert.Error(t, badEmail.Validate())
}
