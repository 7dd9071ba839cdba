package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerEnv struct {
	db     *gorm.DB
	api    *API
	engine *gin.Engine
}

func setupHandlerTest(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	api := NewAPI(gdb, service.NewTokenService("handler-test", time.Hour), t.TempDir(), "/static/uploads")
	api.accounts = service.NewAccountService(gdb).WithHashCost(bcrypt.MinCost)

	r := gin.New()
	r.Use(RequestLogger(), LocaleMiddleware())
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("handler-test"))))

	r.POST("/api/account/create", api.CreateAccount)
	r.POST("/api/account/token", api.IssueToken)
	r.GET("/api/account/me", api.TokenRequired(), api.CurrentAccount)

	r.GET("/api/profiles/:id", api.TokenOptional(), api.GetProfile)
	r.PUT("/api/profiles/me", api.TokenRequired(), api.UpdateMyProfile)
	r.GET("/api/profiles/:id/followers", api.ListFollowers)
	r.GET("/api/profiles/:id/following/count", api.FollowingCount)
	r.POST("/api/profiles/:id/follow", api.TokenRequired(), api.FollowProfile)
	r.DELETE("/api/profiles/:id/follow", api.TokenRequired(), api.UnfollowProfile)
	r.GET("/api/profiles/:id/artworks", api.ListProfileArtworks)

	r.POST("/api/artworks", api.TokenRequired(), api.UploadArtwork)
	r.GET("/api/artworks/unseen", api.TokenRequired(), api.UnseenArtworks)
	r.GET("/api/artworks/:id", api.TokenOptional(), api.GetArtwork)
	r.PUT("/api/artworks/:id", api.TokenRequired(), api.UpdateArtwork)
	r.DELETE("/api/artworks/:id", api.TokenRequired(), api.DeleteArtwork)
	r.GET("/api/artworks/:id/comments", api.ListComments)
	r.POST("/api/artworks/:id/comments", api.TokenRequired(), api.PostComment)
	r.DELETE("/api/comments/:id", api.TokenRequired(), api.DeleteComment)
	r.POST("/api/artworks/:id/like", api.TokenRequired(), api.LikeArtwork)
	r.POST("/api/artworks/:id/dislike", api.TokenRequired(), api.DislikeArtwork)
	r.DELETE("/api/artworks/:id/sentiment", api.TokenRequired(), api.ClearSentiment)
	r.GET("/api/artworks/:id/likes/count", api.LikesCount)
	r.GET("/api/artworks/:id/dislikes/count", api.DislikesCount)
	r.GET("/api/artworks/:id/views", api.ListViewers)
	r.GET("/api/artworks/:id/views/count", api.ViewsCount)
	r.GET("/api/artworks/:id/stats", api.ArtworkStats)

	r.POST("/admin/login", api.AdminLogin)
	r.GET("/admin/logout", api.AdminLogout)
	r.GET("/admin/api/models", api.AdminRequired(), api.ListModels)
	r.GET("/admin/api/models/:name", api.AdminRequired(), api.ListModelRows)

	return &handlerEnv{db: gdb, api: api, engine: r}
}

// register 通过接口注册账号并返回访问令牌与 Profile ID
func (e *handlerEnv) register(t *testing.T, name string) (string, uint) {
	t.Helper()

	email := name + "@example.com"
	rr := e.request(t, http.MethodPost, "/api/account/create", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "password-123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", name, rr.Code, rr.Body.String())
	}

	rr = e.request(t, http.MethodPost, "/api/account/token", "", map[string]interface{}{
		"email":    email,
		"password": "password-123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("token %s: expected 200, got %d: %s", name, rr.Code, rr.Body.String())
	}
	var resp struct {
		Token     string `json:"token"`
		ProfileID uint   `json:"profile_id"`
	}
	decodeBody(t, rr, &resp)
	return resp.Token, resp.ProfileID
}

func (e *handlerEnv) seedArtwork(t *testing.T, profileID uint, title string, createdAt time.Time) db.Artwork {
	t.Helper()

	artwork := db.Artwork{
		ProfileID:   profileID,
		Title:       title,
		ImageURL:    "/static/uploads/" + title + ".png",
		ImageWidth:  640,
		ImageHeight: 480,
		Orientation: db.OrientationLandscape,
	}
	artwork.CreatedAt = createdAt
	if err := e.db.Create(&artwork).Error; err != nil {
		t.Fatalf("failed to seed artwork: %v", err)
	}
	return artwork
}

func (e *handlerEnv) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response: %v\nbody=%s", err, rr.Body.String())
	}
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rr, &resp)
	return resp.Error
}
