package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在指定的 Profile 不存在时返回
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileInvalidInput 在资料字段超长时返回
	ErrProfileInvalidInput = errors.New("invalid profile input")
)

const (
	maxDisplayNameLength = 80
	maxBioLength         = 500
)

// ProfileService 负责 Profile 的读取、资料编辑与计数汇总
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ProfileInput 描述可编辑的资料字段，nil 表示保持原值
type ProfileInput struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// ProfileCounts 汇总关注、粉丝与作品数量
type ProfileCounts struct {
	Followers int64
	Following int64
	Artworks  int64
}

// Get 根据主键获取 Profile
func (s *ProfileService) Get(id uint) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// GetByAccount 根据账号获取对应 Profile
func (s *ProfileService) GetByAccount(accountID uint) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile by account: %w", err)
	}
	return &profile, nil
}

// Update 更新资料字段，未提供的字段保持不变，昵称不能清空
func (s *ProfileService) Update(id uint, input ProfileInput) (*db.Profile, error) {
	if input.DisplayName != nil && len([]rune(strings.TrimSpace(*input.DisplayName))) > maxDisplayNameLength {
		return nil, fmt.Errorf("%w: display name too long", ErrProfileInvalidInput)
	}
	if input.Bio != nil && len([]rune(strings.TrimSpace(*input.Bio))) > maxBioLength {
		return nil, fmt.Errorf("%w: bio too long", ErrProfileInvalidInput)
	}

	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if name := strings.TrimSpace(*input.DisplayName); name != "" {
			profile.DisplayName = name
		}
	}
	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// Counts 返回 Profile 的粉丝、关注与作品数量
func (s *ProfileService) Counts(id uint) (ProfileCounts, error) {
	var counts ProfileCounts
	if err := ensureProfile(s.db, id); err != nil {
		return counts, err
	}

	if err := s.db.Model(&db.Follow{}).Where("followed_id = ?", id).Count(&counts.Followers).Error; err != nil {
		return counts, fmt.Errorf("count followers: %w", err)
	}
	if err := s.db.Model(&db.Follow{}).Where("follower_id = ?", id).Count(&counts.Following).Error; err != nil {
		return counts, fmt.Errorf("count following: %w", err)
	}
	if err := s.db.Model(&db.Artwork{}).Where("profile_id = ?", id).Count(&counts.Artworks).Error; err != nil {
		return counts, fmt.Errorf("count artworks: %w", err)
	}
	return counts, nil
}

// ensureProfile 检查 Profile 是否存在，不存在时返回 ErrProfileNotFound。
func ensureProfile(gdb *gorm.DB, id uint) error {
	var count int64
	if err := gdb.Model(&db.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("find profile: %w", err)
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}
