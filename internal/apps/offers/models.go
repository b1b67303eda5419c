package offers

import "time"

// PartnerOffer is a discount or perk published by a partner company.
type PartnerOffer struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Company      string    `gorm:"type:varchar(255);not null" json:"company"`
	ImageURL     string    `gorm:"type:text" json:"image_url,omitempty"`
	Discount     string    `gorm:"type:varchar(100)" json:"discount,omitempty"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email,omitempty"`
	ContactPhone string    `gorm:"type:varchar(50)" json:"contact_phone,omitempty"`
	Address      string    `gorm:"type:varchar(500)" json:"address,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// ContactMessage is a member's inquiry about an offer. Company is copied
// from the offer when the message is written.
type ContactMessage struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OfferID     string    `gorm:"type:varchar(36);not null;index" json:"offer_id"`
	Company     string    `gorm:"type:varchar(255)" json:"company"`
	SenderName  string    `gorm:"type:varchar(255);not null" json:"sender_name"`
	SenderEmail string    `gorm:"type:varchar(255);not null" json:"sender_email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
