package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/handler"
	"github.com/unveil/internal/service"
	"gorm.io/gorm"
)

// Options 描述路由所需的外部依赖
type Options struct {
	DB            *gorm.DB
	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration
	UploadDir     string
	UploadURLPath string
}

// SetupRouter 配置 Gin 引擎和路由，返回引擎与处理器集合
func SetupRouter(opts Options) (*gin.Engine, *handler.API) {
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(), handler.LocaleMiddleware())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/admin", HttpOnly: true, SameSite: http.SameSiteLaxMode, MaxAge: 86400})
	r.Use(sessions.Sessions("unveil_session", store))

	uploadURL := "/" + strings.Trim(opts.UploadURLPath, "/")
	if uploadURL == "/" {
		uploadURL = "/static/uploads"
	}
	r.Static(uploadURL, opts.UploadDir)

	api := handler.NewAPI(opts.DB, service.NewTokenService(opts.JWTSecret, opts.TokenTTL), opts.UploadDir, uploadURL)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	v1 := r.Group("/api")
	{
		account := v1.Group("/account")
		{
			account.POST("/create", api.CreateAccount)
			account.POST("/token", api.IssueToken)
			account.GET("/me", api.TokenRequired(), api.CurrentAccount)
		}

		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:id", api.TokenOptional(), api.GetProfile)
			profiles.PUT("/me", api.TokenRequired(), api.UpdateMyProfile)
			profiles.GET("/:id/followers", api.ListFollowers)
			profiles.GET("/:id/following", api.ListFollowing)
			profiles.GET("/:id/followers/count", api.FollowerCount)
			profiles.GET("/:id/following/count", api.FollowingCount)
			profiles.POST("/:id/follow", api.TokenRequired(), api.FollowProfile)
			profiles.DELETE("/:id/follow", api.TokenRequired(), api.UnfollowProfile)
			profiles.GET("/:id/artworks", api.ListProfileArtworks)
		}

		artworks := v1.Group("/artworks")
		{
			artworks.POST("", api.TokenRequired(), api.UploadArtwork)
			artworks.GET("/unseen", api.TokenRequired(), api.UnseenArtworks)
			artworks.GET("/:id", api.TokenOptional(), api.GetArtwork)
			artworks.PUT("/:id", api.TokenRequired(), api.UpdateArtwork)
			artworks.DELETE("/:id", api.TokenRequired(), api.DeleteArtwork)

			artworks.GET("/:id/comments", api.ListComments)
			artworks.POST("/:id/comments", api.TokenRequired(), api.PostComment)

			artworks.POST("/:id/like", api.TokenRequired(), api.LikeArtwork)
			artworks.POST("/:id/dislike", api.TokenRequired(), api.DislikeArtwork)
			artworks.DELETE("/:id/sentiment", api.TokenRequired(), api.ClearSentiment)
			artworks.GET("/:id/likes/count", api.LikesCount)
			artworks.GET("/:id/dislikes/count", api.DislikesCount)

			artworks.GET("/:id/views", api.ListViewers)
			artworks.GET("/:id/views/count", api.ViewsCount)
			artworks.GET("/:id/stats", api.ArtworkStats)
		}

		v1.DELETE("/comments/:id", api.TokenRequired(), api.DeleteComment)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.AdminLogin)
		admin.GET("/logout", api.AdminLogout)

		auth := admin.Group("/api")
		auth.Use(api.AdminRequired())
		{
			auth.GET("/models", api.ListModels)
			auth.GET("/models/:name", api.ListModelRows)
		}
	}

	return r, api
}
