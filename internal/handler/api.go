package handler

import (
	"github.com/unveil/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	accounts   *service.AccountService
	tokens     *service.TokenService
	profiles   *service.ProfileService
	artworks   *service.ArtworkService
	sampler    *service.UnseenSampler
	follows    *service.FollowService
	sentiments *service.SentimentService
	comments   *service.CommentService
	views      *service.ViewService
	admin      *service.AdminService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, tokens *service.TokenService, uploadDir, uploadURL string) *API {
	views := service.NewViewService(db)

	return &API{
		db:         db,
		accounts:   service.NewAccountService(db),
		tokens:     tokens,
		profiles:   service.NewProfileService(db),
		artworks:   service.NewArtworkService(db, views),
		sampler:    service.NewUnseenSampler(db),
		follows:    service.NewFollowService(db),
		sentiments: service.NewSentimentService(db),
		comments:   service.NewCommentService(db),
		views:      views,
		admin:      service.NewAdminService(db),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
