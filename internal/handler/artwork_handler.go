package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/logging"
	"github.com/unveil/internal/service"
	_ "golang.org/x/image/webp"
)

const maxUnseenLimit = 50

type artworkUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	Orientation string `json:"orientation"`
}

// UploadArtwork 接收 multipart 图片与作品信息并发布作品
func (a *API) UploadArtwork(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	width, height, err := imageDimensions(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无法识别的图片格式")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondInternal(c, err, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), strings.ToLower(filepath.Ext(file.Filename)))
	target := filepath.Join(a.uploadDir, filename)
	if err := c.SaveUploadedFile(file, target); err != nil {
		respondInternal(c, err, "保存文件失败")
		return
	}

	artwork, err := a.artworks.Create(currentProfileID(c), service.ArtworkInput{
		Title:       c.PostForm("title"),
		Content:     c.PostForm("content"),
		ImageURL:    path.Join(a.uploadURL, filename),
		ImageWidth:  width,
		ImageHeight: height,
		Orientation: c.PostForm("orientation"),
	})
	if err != nil {
		if removeErr := os.Remove(target); removeErr != nil {
			logging.Log.Warnw("remove orphan upload", "file", target, "error", removeErr)
		}
		handleArtworkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "artwork": artworkPayload(*artwork)})
}

// GetArtwork 返回作品详情；携带令牌时记录首次浏览
func (a *API) GetArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	viewer := currentProfileID(c)
	artwork, err := a.artworks.View(id, viewer)
	if err != nil {
		handleArtworkError(c, err)
		return
	}

	payload := artworkPayload(*artwork)
	payload["content_html"] = renderMarkdown(artwork.Content)

	if viewer != 0 {
		sentiment, err := a.sentiments.Current(viewer, artwork.ID)
		if err != nil {
			respondInternal(c, err, "获取作品失败")
			return
		}
		if sentiment != nil {
			payload["my_sentiment"] = sentiment.Status
		}
	}

	c.JSON(http.StatusOK, gin.H{"artwork": payload})
}

// UpdateArtwork 修改作品标题、描述与方向，图片保持不变
func (a *API) UpdateArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	var payload artworkUpdateRequest
	if !bindJSON(c, &payload, "标题不能为空") {
		return
	}

	existing, err := a.artworks.Get(id)
	if err != nil {
		handleArtworkError(c, err)
		return
	}

	artwork, err := a.artworks.Update(id, currentProfileID(c), service.ArtworkInput{
		Title:       payload.Title,
		Content:     payload.Content,
		ImageURL:    existing.ImageURL,
		ImageWidth:  existing.ImageWidth,
		ImageHeight: existing.ImageHeight,
		Orientation: payload.Orientation,
	})
	if err != nil {
		handleArtworkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "artwork": artworkPayload(*artwork)})
}

// DeleteArtwork 删除作品及其评论、评价与浏览记录
func (a *API) DeleteArtwork(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	if err := a.artworks.Delete(id, currentProfileID(c)); err != nil {
		handleArtworkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": localize(c, "作品已删除")})
}

// UnseenArtworks 返回当前用户尚未浏览过的作品
func (a *API) UnseenArtworks(c *gin.Context) {
	mode, err := service.ParseSampleMode(strings.ToLower(strings.TrimSpace(c.Query("mode"))))
	if err != nil {
		respondError(c, http.StatusBadRequest, "mode 只能是 random 或 ordered")
		return
	}

	start := parseNonNegativeInt(c.DefaultQuery("start", "0"), 0)
	limit := parsePositiveInt(c.DefaultQuery("limit", ""), service.DefaultSampleLimit)
	if limit > maxUnseenLimit {
		limit = maxUnseenLimit
	}

	items, err := a.sampler.Sample(currentProfileID(c), mode, start, limit)
	if err != nil {
		handleArtworkError(c, err)
		return
	}

	response := gin.H{
		"artworks": artworkListPayload(items),
		"mode":     mode,
		"limit":    limit,
	}
	if mode == service.SampleOrdered {
		response["start"] = start
		response["next_start"] = start + len(items)
	}
	c.JSON(http.StatusOK, response)
}

func imageDimensions(file *multipart.FileHeader) (int, int, error) {
	src, err := file.Open()
	if err != nil {
		return 0, 0, err
	}
	defer src.Close()

	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func artworkPayload(artwork db.Artwork) gin.H {
	return gin.H{
		"id":           artwork.ID,
		"profile_id":   artwork.ProfileID,
		"title":        artwork.Title,
		"content":      artwork.Content,
		"image_url":    artwork.ImageURL,
		"image_width":  artwork.ImageWidth,
		"image_height": artwork.ImageHeight,
		"orientation":  artwork.Orientation,
		"created_at":   artwork.CreatedAt,
		"updated_at":   artwork.UpdatedAt,
	}
}

func artworkListPayload(items []db.Artwork) []gin.H {
	list := make([]gin.H, 0, len(items))
	for _, item := range items {
		list = append(list, artworkPayload(item))
	}
	return list
}

func handleArtworkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArtworkNotFound):
		respondError(c, http.StatusNotFound, "作品不存在")
	case errors.Is(err, service.ErrArtworkForbidden):
		respondError(c, http.StatusForbidden, "只能修改自己的作品")
	case errors.Is(err, service.ErrArtworkTitleRequired):
		respondError(c, http.StatusBadRequest, "标题不能为空且不超过120个字符")
	case errors.Is(err, service.ErrArtworkImageMissing):
		respondError(c, http.StatusBadRequest, "请上传作品图片")
	case errors.Is(err, service.ErrArtworkOrientationInvalid):
		respondError(c, http.StatusBadRequest, "方向只能是 landscape、portrait 或 square")
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "用户不存在")
	default:
		respondInternal(c, err, "操作失败")
	}
}
