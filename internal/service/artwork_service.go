package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
)

var (
	ErrArtworkNotFound           = errors.New("artwork not found")
	ErrArtworkForbidden          = errors.New("artwork belongs to another profile")
	ErrArtworkTitleRequired      = errors.New("artwork title is required")
	ErrArtworkImageMissing       = errors.New("artwork image is required")
	ErrArtworkOrientationInvalid = errors.New("artwork orientation is invalid")
)

const maxArtworkTitleLength = 120

// ArtworkService handles artwork CRUD and first-view bookkeeping.
type ArtworkService struct {
	db    *gorm.DB
	views *ViewService
}

// ArtworkInput represents fields accepted when creating or updating an artwork.
type ArtworkInput struct {
	Title       string
	Content     string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	Orientation string
}

// ArtworkListResult aggregates paginated artwork results.
type ArtworkListResult struct {
	Items      []db.Artwork
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewArtworkService creates an ArtworkService instance.
func NewArtworkService(gdb *gorm.DB, views *ViewService) *ArtworkService {
	return &ArtworkService{db: gdb, views: views}
}

// Get fetches an artwork by id without side effects.
func (s *ArtworkService) Get(id uint) (*db.Artwork, error) {
	var item db.Artwork
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtworkNotFound
		}
		return nil, err
	}
	return &item, nil
}

// View fetches an artwork and records the viewer's first view.
// viewerProfileID of 0 means an anonymous request and records nothing.
func (s *ArtworkService) View(id, viewerProfileID uint) (*db.Artwork, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if viewerProfileID == 0 || s.views == nil {
		return item, nil
	}
	if _, err := s.views.Record(viewerProfileID, item.ID, time.Now()); err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts a new artwork owned by profileID.
func (s *ArtworkService) Create(profileID uint, input ArtworkInput) (*db.Artwork, error) {
	orientation, err := validateArtworkInput(input)
	if err != nil {
		return nil, err
	}
	if err := ensureProfile(s.db, profileID); err != nil {
		return nil, err
	}

	item := db.Artwork{
		ProfileID:   profileID,
		Title:       strings.TrimSpace(input.Title),
		Content:     strings.TrimSpace(input.Content),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		ImageWidth:  input.ImageWidth,
		ImageHeight: input.ImageHeight,
		Orientation: orientation,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies content fields of an artwork owned by ownerProfileID.
func (s *ArtworkService) Update(id, ownerProfileID uint, input ArtworkInput) (*db.Artwork, error) {
	orientation, err := validateArtworkInput(input)
	if err != nil {
		return nil, err
	}

	item, err := s.owned(id, ownerProfileID)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(input.Title)
	item.Content = strings.TrimSpace(input.Content)
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.ImageWidth = input.ImageWidth
	item.ImageHeight = input.ImageHeight
	item.Orientation = orientation

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an artwork together with its comments, sentiments and views.
func (s *ArtworkService) Delete(id, ownerProfileID uint) error {
	item, err := s.owned(id, ownerProfileID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artwork_id = ?", item.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", item.ID).Delete(&db.Sentiment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artwork_id = ?", item.ID).Delete(&db.View{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// ListByProfile returns a profile's artworks, newest first.
func (s *ArtworkService) ListByProfile(profileID uint, page, perPage int) (ArtworkListResult, error) {
	result := ArtworkListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 12),
	}
	if err := ensureProfile(s.db, profileID); err != nil {
		return result, err
	}

	query := s.db.Model(&db.Artwork{}).Where("profile_id = ?", profileID)
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}

func (s *ArtworkService) owned(id, ownerProfileID uint) (*db.Artwork, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if item.ProfileID != ownerProfileID {
		return nil, ErrArtworkForbidden
	}
	return item, nil
}

// DeriveOrientation 根据图片宽高推断作品方向。
func DeriveOrientation(width, height int) string {
	switch {
	case width > height:
		return db.OrientationLandscape
	case height > width:
		return db.OrientationPortrait
	default:
		return db.OrientationSquare
	}
}

func validateArtworkInput(input ArtworkInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", ErrArtworkTitleRequired
	}
	if len([]rune(title)) > maxArtworkTitleLength {
		return "", fmt.Errorf("%w: title exceeds %d characters", ErrArtworkTitleRequired, maxArtworkTitleLength)
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return "", ErrArtworkImageMissing
	}
	if input.ImageWidth <= 0 || input.ImageHeight <= 0 {
		return "", ErrArtworkImageMissing
	}

	orientation := strings.ToLower(strings.TrimSpace(input.Orientation))
	switch orientation {
	case "":
		return DeriveOrientation(input.ImageWidth, input.ImageHeight), nil
	case db.OrientationLandscape, db.OrientationPortrait, db.OrientationSquare:
		return orientation, nil
	default:
		return "", ErrArtworkOrientationInvalid
	}
}
