package community

import "time"

// Post is a message on the community board. Author fields are copied from
// the request; contact fields are optional.
type Post struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AuthorID   string    `gorm:"type:varchar(36);index" json:"author_id"`
	AuthorName string    `gorm:"type:varchar(255);not null" json:"author_name"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	City       string    `gorm:"type:varchar(255)" json:"city,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Post) TableName() string { return "community_posts" }
