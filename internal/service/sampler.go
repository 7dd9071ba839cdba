package service

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
)

const (
	// DefaultSampleLimit 未指定或非法 limit 时的默认值
	DefaultSampleLimit = 5
	// randomDrawFactor 随机模式下每个名额允许的抽取次数
	randomDrawFactor = 3
	// samplePrealloc 结果切片预分配上限，limit 很大时按需增长
	samplePrealloc = 64
)

// SampleMode 决定未看作品的取出方式。
type SampleMode string

const (
	SampleRandom  SampleMode = "random"
	SampleOrdered SampleMode = "ordered"
)

// ParseSampleMode 解析查询参数，空值按随机模式处理。
func ParseSampleMode(raw string) (SampleMode, error) {
	switch SampleMode(raw) {
	case "", SampleRandom:
		return SampleRandom, nil
	case SampleOrdered:
		return SampleOrdered, nil
	default:
		return "", fmt.Errorf("unknown sample mode %q", raw)
	}
}

// UnseenSampler 返回某个 Profile 尚未浏览过的作品。
// 取样本身不会写入 View，标记已读由单件作品详情负责。
type UnseenSampler struct {
	db   *gorm.DB
	intN func(n int) int
}

// NewUnseenSampler 构造使用全局随机源的取样器。
func NewUnseenSampler(gdb *gorm.DB) *UnseenSampler {
	return &UnseenSampler{db: gdb, intN: rand.IntN}
}

// WithRand 替换随机源，intN 需返回 [0, n) 内的整数。
func (s *UnseenSampler) WithRand(intN func(n int) int) *UnseenSampler {
	if intN != nil {
		s.intN = intN
	}
	return s
}

// Sample 按 mode 分派到 Random 或 Ordered。start 仅对顺序模式生效。
func (s *UnseenSampler) Sample(profileID uint, mode SampleMode, start, limit int) ([]db.Artwork, error) {
	if mode == SampleOrdered {
		return s.Ordered(profileID, start, limit)
	}
	return s.Random(profileID, limit)
}

// Random 在 [1, 最大作品ID] 中均匀抽取候选，最多抽取 3×limit 次。
// limit 超过现存作品数时按作品数计算名额与次数。
// 名额未满也会在次数耗尽后返回，结果可能少于 limit。
func (s *UnseenSampler) Random(profileID uint, limit int) ([]db.Artwork, error) {
	limit = normalizeSampleLimit(limit)
	if err := ensureProfile(s.db, profileID); err != nil {
		return nil, err
	}

	var maxID uint
	if err := s.db.Model(&db.Artwork{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error; err != nil {
		return nil, fmt.Errorf("max artwork id: %w", err)
	}
	var total int64
	if err := s.db.Model(&db.Artwork{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count artworks: %w", err)
	}

	items := make([]db.Artwork, 0, min(limit, samplePrealloc))
	if maxID == 0 || total == 0 {
		return items, nil
	}
	// 能接受的作品不会多于现存作品数
	if int64(limit) > total {
		limit = int(total)
	}

	picked := make(map[uint]struct{}, min(limit, samplePrealloc))
	for attempt := 0; attempt < randomDrawFactor*limit && len(items) < limit; attempt++ {
		candidate := uint(s.intN(int(maxID))) + 1
		if _, dup := picked[candidate]; dup {
			continue
		}

		var artwork db.Artwork
		if err := s.db.First(&artwork, candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("lookup artwork %d: %w", candidate, err)
		}

		seen, err := s.hasSeen(profileID, candidate)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}

		picked[candidate] = struct{}{}
		items = append(items, artwork)
	}

	return items, nil
}

// Ordered 按创建时间倒序返回从 start 开始的 limit 件未看作品，结果确定可分页。
func (s *UnseenSampler) Ordered(profileID uint, start, limit int) ([]db.Artwork, error) {
	limit = normalizeSampleLimit(limit)
	if start < 0 {
		start = 0
	}
	if err := ensureProfile(s.db, profileID); err != nil {
		return nil, err
	}

	seen := s.db.Model(&db.View{}).Select("artwork_id").Where("profile_id = ?", profileID)

	items := make([]db.Artwork, 0, min(limit, samplePrealloc))
	if err := s.db.Model(&db.Artwork{}).
		Where("id NOT IN (?)", seen).
		Order("created_at desc").
		Order("id desc").
		Offset(start).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list unseen artworks: %w", err)
	}

	return items, nil
}

func (s *UnseenSampler) hasSeen(profileID, artworkID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.View{}).
		Where("profile_id = ? AND artwork_id = ?", profileID, artworkID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check view: %w", err)
	}
	return count > 0, nil
}

func normalizeSampleLimit(limit int) int {
	if limit <= 0 {
		return DefaultSampleLimit
	}
	return limit
}
