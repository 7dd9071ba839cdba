package db

import "gorm.io/gorm"

const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
	OrientationSquare    = "square"
)

// Artwork 定义了作品模型，ProfileID 为作者且创建后不再变更。
type Artwork struct {
	gorm.Model
	ProfileID   uint   `gorm:"index;not null"`
	Title       string `gorm:"size:120;not null"`
	Content     string `gorm:"type:text"`
	ImageURL    string `gorm:"size:255;not null"`
	ImageWidth  int
	ImageHeight int
	Orientation string `gorm:"size:16"`
}
