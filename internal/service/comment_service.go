package service

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/unveil/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentEmpty     = errors.New("comment body is required")
	ErrCommentTooLong   = errors.New("comment body is too long")
	ErrCommentForbidden = errors.New("comment belongs to another profile")
)

const maxCommentLength = 2000

// CommentService 负责作品评论的发布、列表与删除。
type CommentService struct {
	db     *gorm.DB
	policy *bluemonday.Policy
}

// CommentEntry 评论及作者展示名
type CommentEntry struct {
	ID          uint
	ArtworkID   uint
	ProfileID   uint
	DisplayName string
	Body        string
	CreatedAt   time.Time
}

// NewCommentService 创建 CommentService，评论正文只保留纯文本。
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, policy: bluemonday.StrictPolicy()}
}

// Post 发布评论
func (s *CommentService) Post(profileID, artworkID uint, body string) (*db.Comment, error) {
	cleaned := s.clean(body)
	if cleaned == "" {
		return nil, ErrCommentEmpty
	}
	if len([]rune(cleaned)) > maxCommentLength {
		return nil, ErrCommentTooLong
	}
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return nil, err
	}

	comment := db.Comment{ArtworkID: artworkID, ProfileID: profileID, Body: cleaned}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// List 返回作品评论，按发布时间升序
func (s *CommentService) List(artworkID uint) ([]CommentEntry, error) {
	if err := ensureArtwork(s.db, artworkID); err != nil {
		return nil, err
	}

	var entries []CommentEntry
	if err := s.db.Table("comments c").
		Select("c.id, c.artwork_id, c.profile_id, p.display_name, c.body, c.created_at").
		Joins("JOIN profiles p ON p.id = c.profile_id").
		Where("c.artwork_id = ? AND c.deleted_at IS NULL", artworkID).
		Order("c.created_at ASC").
		Order("c.id ASC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return entries, nil
}

// Delete 删除评论，仅作者本人可操作
func (s *CommentService) Delete(id, profileID uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.ProfileID != profileID {
		return ErrCommentForbidden
	}
	return s.db.Delete(&comment).Error
}

// clean 去除所有标签并还原实体，按纯文本存储。
func (s *CommentService) clean(body string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(body)))
}
