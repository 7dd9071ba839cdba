package db

import "gorm.io/gorm"

// Profile 是账号在社交层面的身份，与 Account 一一对应。
type Profile struct {
	gorm.Model
	AccountID   uint   `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"size:80"`
	Bio         string `gorm:"size:500"`
	AvatarURL   string `gorm:"size:255"`
}
