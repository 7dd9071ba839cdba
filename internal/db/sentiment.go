package db

import "time"

const (
	SentimentLike    = "like"
	SentimentDislike = "dislike"
)

// Sentiment 记录用户对作品的喜欢/不喜欢，每个 (profile, artwork) 仅一条。
type Sentiment struct {
	ID        uint   `gorm:"primaryKey"`
	ProfileID uint   `gorm:"uniqueIndex:idx_sentiment_pair;not null"`
	ArtworkID uint   `gorm:"index;uniqueIndex:idx_sentiment_pair;not null"`
	Status    string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (Sentiment) TableName() string {
	return "sentiments"
}
