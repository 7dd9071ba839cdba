package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/service"
)

// LikeArtwork 标记喜欢
func (a *API) LikeArtwork(c *gin.Context) {
	a.setSentiment(c, a.sentiments.Like)
}

// DislikeArtwork 标记不喜欢
func (a *API) DislikeArtwork(c *gin.Context) {
	a.setSentiment(c, a.sentiments.Dislike)
}

func (a *API) setSentiment(c *gin.Context, set func(uint, uint) (*db.Sentiment, error)) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	sentiment, err := set(currentProfileID(c), id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}

	counts, err := a.sentiments.Counts(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"status":   sentiment.Status,
		"likes":    counts.Likes,
		"dislikes": counts.Dislikes,
	})
}

// ClearSentiment 撤销喜欢或不喜欢
func (a *API) ClearSentiment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	if err := a.sentiments.Clear(currentProfileID(c), id); err != nil {
		handleEngagementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LikesCount 喜欢数量
func (a *API) LikesCount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}
	counts, err := a.sentiments.Counts(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likes": counts.Likes})
}

// DislikesCount 不喜欢数量
func (a *API) DislikesCount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}
	counts, err := a.sentiments.Counts(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dislikes": counts.Dislikes})
}

// ListViewers 返回浏览过作品的用户
func (a *API) ListViewers(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	entries, err := a.views.Viewers(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}

	viewers := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		viewers = append(viewers, gin.H{
			"profile_id":   entry.ProfileID,
			"display_name": entry.DisplayName,
			"viewed_at":    entry.ViewedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"viewers": viewers, "total": len(viewers)})
}

// ViewsCount 浏览人数
func (a *API) ViewsCount(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}
	total, err := a.views.Count(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "views": total})
}

// ArtworkStats 浏览、喜欢、不喜欢与评论汇总
func (a *API) ArtworkStats(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}
	stats, err := a.views.Stats(id)
	if err != nil {
		handleEngagementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"artwork_id": id,
		"views":      stats.Views,
		"likes":      stats.Likes,
		"dislikes":   stats.Dislikes,
		"comments":   stats.Comments,
	})
}

func handleEngagementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArtworkNotFound):
		respondError(c, http.StatusNotFound, "作品不存在")
	case errors.Is(err, service.ErrSentimentNotFound):
		respondError(c, http.StatusNotFound, "尚未评价该作品")
	default:
		respondInternal(c, err, "操作失败")
	}
}
