package db

import "time"

// View 标记某个 Profile 已经看过某件作品，仅在首次浏览时写入，之后不再更新。
type View struct {
	ID        uint `gorm:"primaryKey"`
	ProfileID uint `gorm:"uniqueIndex:idx_view_pair;not null"`
	ArtworkID uint `gorm:"index;uniqueIndex:idx_view_pair;not null"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (View) TableName() string {
	return "views"
}
