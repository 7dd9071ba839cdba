package db

import "gorm.io/gorm"

// Comment 作品评论
type Comment struct {
	gorm.Model
	ArtworkID uint   `gorm:"index;not null"`
	ProfileID uint   `gorm:"index;not null"`
	Body      string `gorm:"type:text;not null"`
}
