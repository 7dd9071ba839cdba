package db

import "time"

// Follow 关注关系（FollowerID 关注 FollowedID）
// idx_follow_pair 保证同一对关系只存在一条
type Follow struct {
	ID         uint `gorm:"primaryKey"`
	FollowerID uint `gorm:"index;uniqueIndex:idx_follow_pair;not null"`
	FollowedID uint `gorm:"index;uniqueIndex:idx_follow_pair;not null"`
	CreatedAt  time.Time
}

// TableName 指定自定义表名。
func (Follow) TableName() string {
	return "follows"
}
