package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSentimentNotFound 清除一条不存在的反应时返回
var ErrSentimentNotFound = errors.New("sentiment not found")

// SentimentService 维护作品的喜欢/不喜欢，每个 Profile 对每件作品仅保留一条。
type SentimentService struct {
	db *gorm.DB
}

// SentimentCounts 喜欢与不喜欢数量
type SentimentCounts struct {
	Likes    int64
	Dislikes int64
}

// NewSentimentService 创建 SentimentService
func NewSentimentService(gdb *gorm.DB) *SentimentService {
	return &SentimentService{db: gdb}
}

// Like 标记喜欢，已有反应时改为喜欢
func (s *SentimentService) Like(profileID, artworkID uint) (*db.Sentiment, error) {
	return s.set(profileID, artworkID, db.SentimentLike)
}

// Dislike 标记不喜欢，已有反应时改为不喜欢
func (s *SentimentService) Dislike(profileID, artworkID uint) (*db.Sentiment, error) {
	return s.set(profileID, artworkID, db.SentimentDislike)
}

// Clear 移除反应
func (s *SentimentService) Clear(profileID, artworkID uint) error {
	result := s.db.Where("profile_id = ? AND artwork_id = ?", profileID, artworkID).Delete(&db.Sentiment{})
	if result.Error != nil {
		return fmt.Errorf("clear sentiment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSentimentNotFound
	}
	return nil
}

// Current 返回 profile 对作品的当前反应，没有时返回 nil
func (s *SentimentService) Current(profileID, artworkID uint) (*db.Sentiment, error) {
	var sentiment db.Sentiment
	if err := s.db.Where("profile_id = ? AND artwork_id = ?", profileID, artworkID).First(&sentiment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sentiment, nil
}

// Counts 统计作品的喜欢与不喜欢
func (s *SentimentService) Counts(artworkID uint) (SentimentCounts, error) {
	var counts SentimentCounts
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return counts, err
	}
	if err := s.db.Model(&db.Sentiment{}).
		Where("artwork_id = ? AND status = ?", artworkID, db.SentimentLike).
		Count(&counts.Likes).Error; err != nil {
		return counts, err
	}
	if err := s.db.Model(&db.Sentiment{}).
		Where("artwork_id = ? AND status = ?", artworkID, db.SentimentDislike).
		Count(&counts.Dislikes).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *SentimentService) set(profileID, artworkID uint, status string) (*db.Sentiment, error) {
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return nil, err
	}

	now := time.Now()
	sentiment := db.Sentiment{
		ProfileID: profileID,
		ArtworkID: artworkID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "artwork_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&sentiment).Error; err != nil {
		return nil, fmt.Errorf("save sentiment: %w", err)
	}

	var stored db.Sentiment
	if err := s.db.Where("profile_id = ? AND artwork_id = ?", profileID, artworkID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
