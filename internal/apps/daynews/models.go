package daynews

import "time"

// Item is one entry of the day news feed.
type Item struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	ImageURL   string    `gorm:"type:text" json:"image_url,omitempty"`
	AuthorName string    `gorm:"type:varchar(255)" json:"author_name,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Item) TableName() string { return "day_news" }
