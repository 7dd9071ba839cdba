package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/service"
)

type commentRequest struct {
	Body string `json:"body"`
}

// ListComments 返回作品下的全部评论
func (a *API) ListComments(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	entries, err := a.comments.List(id)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	comments := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		comments = append(comments, gin.H{
			"id":           entry.ID,
			"artwork_id":   entry.ArtworkID,
			"profile_id":   entry.ProfileID,
			"display_name": entry.DisplayName,
			"body":         entry.Body,
			"created_at":   entry.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "total": len(comments)})
}

// PostComment 发表评论
func (a *API) PostComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作品ID")
		return
	}

	var payload commentRequest
	if !bindJSON(c, &payload, "评论格式不正确") {
		return
	}

	comment, err := a.comments.Post(currentProfileID(c), id, payload.Body)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": gin.H{
			"id":         comment.ID,
			"artwork_id": comment.ArtworkID,
			"profile_id": comment.ProfileID,
			"body":       comment.Body,
			"created_at": comment.CreatedAt,
		},
	})
}

// DeleteComment 删除自己的评论
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(id, currentProfileID(c)); err != nil {
		handleCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentEmpty):
		respondError(c, http.StatusBadRequest, "评论内容不能为空")
	case errors.Is(err, service.ErrCommentTooLong):
		respondError(c, http.StatusBadRequest, "评论不能超过2000个字符")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "评论不存在")
	case errors.Is(err, service.ErrCommentForbidden):
		respondError(c, http.StatusForbidden, "只能删除自己的评论")
	case errors.Is(err, service.ErrArtworkNotFound):
		respondError(c, http.StatusNotFound, "作品不存在")
	default:
		respondInternal(c, err, "操作失败")
	}
}
