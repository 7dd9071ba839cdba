package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrFollowSelf 关注自己时返回
	ErrFollowSelf = errors.New("cannot follow self")
	// ErrFollowNotFound 取消一条不存在的关注时返回
	ErrFollowNotFound = errors.New("follow not found")
)

// FollowService 关系链服务
type FollowService struct {
	db *gorm.DB
}

// FollowEntry 关系列表中的一项
type FollowEntry struct {
	ProfileID   uint
	DisplayName string
	FollowedAt  time.Time
}

// FollowListResult 分页的关系列表
type FollowListResult struct {
	Items      []FollowEntry
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewFollowService 创建 FollowService
func NewFollowService(gdb *gorm.DB) *FollowService {
	return &FollowService{db: gdb}
}

// Follow 建立关注，重复关注不报错
func (s *FollowService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrFollowSelf
	}
	if err := ensureProfile(s.db, followedID); err != nil {
		return err
	}

	edge := db.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
		DoNothing: true,
	}).Create(&edge).Error; err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

// Unfollow 取消关注
func (s *FollowService) Unfollow(followerID, followedID uint) error {
	result := s.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&db.Follow{})
	if result.Error != nil {
		return fmt.Errorf("delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing 判断 followerID 是否关注了 followedID
func (s *FollowService) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Followers 查询关注 profileID 的人
func (s *FollowService) Followers(profileID uint, page, perPage int) (FollowListResult, error) {
	return s.list(profileID, "followed_id", "follower_id", page, perPage)
}

// Following 查询 profileID 关注的人
func (s *FollowService) Following(profileID uint, page, perPage int) (FollowListResult, error) {
	return s.list(profileID, "follower_id", "followed_id", page, perPage)
}

// FollowerCount 粉丝数
func (s *FollowService) FollowerCount(profileID uint) (int64, error) {
	return s.count(profileID, "followed_id")
}

// FollowingCount 关注数
func (s *FollowService) FollowingCount(profileID uint) (int64, error) {
	return s.count(profileID, "follower_id")
}

func (s *FollowService) count(profileID uint, column string) (int64, error) {
	if err := ensureProfile(s.db, profileID); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.Model(&db.Follow{}).Where(column+" = ?", profileID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count follows: %w", err)
	}
	return count, nil
}

// list 以 matchColumn 过滤，返回 otherColumn 一侧的 Profile
func (s *FollowService) list(profileID uint, matchColumn, otherColumn string, page, perPage int) (FollowListResult, error) {
	result := FollowListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 10),
	}
	if err := ensureProfile(s.db, profileID); err != nil {
		return result, err
	}

	if err := s.db.Model(&db.Follow{}).Where(matchColumn+" = ?", profileID).Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("count follows: %w", err)
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	if err := s.db.Table("follows f").
		Select("f."+otherColumn+" AS profile_id, p.display_name, f.created_at AS followed_at").
		Joins("JOIN profiles p ON p.id = f."+otherColumn).
		Where("f."+matchColumn+" = ?", profileID).
		Order("f.created_at DESC").
		Order("f.id DESC").
		Offset((result.Page - 1) * result.PerPage).
		Limit(result.PerPage).
		Scan(&result.Items).Error; err != nil {
		return result, fmt.Errorf("list follows: %w", err)
	}
	return result, nil
}
