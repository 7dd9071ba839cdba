package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewService 负责作品浏览记录与计数。
type ViewService struct {
	db *gorm.DB
}

// NewViewService 创建 ViewService。
func NewViewService(gdb *gorm.DB) *ViewService {
	return &ViewService{db: gdb}
}

// ArtworkStats 汇总作品维度的互动数据。
type ArtworkStats struct {
	Views    int64
	Likes    int64
	Dislikes int64
	Comments int64
}

// ViewerEntry 描述一次首次浏览。
type ViewerEntry struct {
	ProfileID   uint
	DisplayName string
	ViewedAt    time.Time
}

// Record 写入 profile 对作品的首次浏览，返回是否为新记录。
// 重复浏览依靠 (profile_id, artwork_id) 唯一索引忽略，不更新已有记录。
func (s *ViewService) Record(profileID, artworkID uint, now time.Time) (bool, error) {
	if profileID == 0 || artworkID == 0 {
		return false, errors.New("invalid profile or artwork id")
	}

	view := db.View{ProfileID: profileID, ArtworkID: artworkID, CreatedAt: now}
	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "artwork_id"}},
		DoNothing: true,
	}).Create(&view)
	if insert.Error != nil {
		return false, fmt.Errorf("record view: %w", insert.Error)
	}
	return insert.RowsAffected == 1, nil
}

// Viewers 返回浏览过作品的 Profile，按首次浏览时间倒序。
func (s *ViewService) Viewers(artworkID uint) ([]ViewerEntry, error) {
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return nil, err
	}

	var entries []ViewerEntry
	if err := s.db.Table("views v").
		Select("v.profile_id, p.display_name, v.created_at AS viewed_at").
		Joins("JOIN profiles p ON p.id = v.profile_id").
		Where("v.artwork_id = ?", artworkID).
		Order("v.created_at DESC").
		Order("v.id DESC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("list viewers: %w", err)
	}
	return entries, nil
}

// Count 返回作品的浏览人数。
func (s *ViewService) Count(artworkID uint) (int64, error) {
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.Model(&db.View{}).Where("artwork_id = ?", artworkID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return count, nil
}

// Stats 汇总作品的浏览、喜欢、不喜欢与评论数量。
func (s *ViewService) Stats(artworkID uint) (ArtworkStats, error) {
	var stats ArtworkStats
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return stats, err
	}

	if err := s.db.Model(&db.View{}).Where("artwork_id = ?", artworkID).Count(&stats.Views).Error; err != nil {
		return stats, err
	}

	var sentiments []struct {
		Status string
		Total  int64
	}
	if err := s.db.Model(&db.Sentiment{}).
		Select("status, COUNT(*) AS total").
		Where("artwork_id = ?", artworkID).
		Group("status").
		Scan(&sentiments).Error; err != nil {
		return stats, err
	}
	for _, row := range sentiments {
		switch row.Status {
		case db.SentimentLike:
			stats.Likes = row.Total
		case db.SentimentDislike:
			stats.Dislikes = row.Total
		}
	}

	if err := s.db.Model(&db.Comment{}).Where("artwork_id = ?", artworkID).Count(&stats.Comments).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func ensureArtwork(gdb *gorm.DB, id uint) error {
	var count int64
	if err := gdb.Model(&db.Artwork{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("find artwork: %w", err)
	}
	if count == 0 {
		return ErrArtworkNotFound
	}
	return nil
}
