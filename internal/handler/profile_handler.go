package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/service"
)

type profileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

// GetProfile 返回 Profile 资料与计数
func (a *API) GetProfile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	profile, err := a.profiles.Get(id)
	if err != nil {
		handleProfileError(c, err)
		return
	}
	counts, err := a.profiles.Counts(id)
	if err != nil {
		handleProfileError(c, err)
		return
	}

	payload := profilePayload(*profile)
	payload["follower_count"] = counts.Followers
	payload["following_count"] = counts.Following
	payload["artwork_count"] = counts.Artworks

	if viewer := currentProfileID(c); viewer != 0 && viewer != id {
		following, err := a.follows.IsFollowing(viewer, id)
		if err != nil {
			respondInternal(c, err, "获取用户失败")
			return
		}
		payload["is_following"] = following
	}

	c.JSON(http.StatusOK, gin.H{"profile": payload})
}

// UpdateMyProfile 更新当前登录用户的资料
func (a *API) UpdateMyProfile(c *gin.Context) {
	var payload profileRequest
	if !bindJSON(c, &payload, "资料格式不正确") {
		return
	}

	profile, err := a.profiles.Update(currentProfileID(c), service.ProfileInput{
		DisplayName: payload.DisplayName,
		Bio:         payload.Bio,
		AvatarURL:   payload.AvatarURL,
	})
	if err != nil {
		handleProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localize(c, "资料已更新"), "profile": profilePayload(*profile)})
}

// ListFollowers 查询某用户的粉丝
func (a *API) ListFollowers(c *gin.Context) {
	a.listFollows(c, a.follows.Followers, "followers")
}

// ListFollowing 查询某用户关注的人
func (a *API) ListFollowing(c *gin.Context) {
	a.listFollows(c, a.follows.Following, "following")
}

func (a *API) listFollows(c *gin.Context, list func(uint, int, int) (service.FollowListResult, error), key string) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("per_page", "10"), 10)

	result, err := list(id, page, perPage)
	if err != nil {
		handleProfileError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, entry := range result.Items {
		items = append(items, gin.H{
			"profile_id":   entry.ProfileID,
			"display_name": entry.DisplayName,
			"followed_at":  entry.FollowedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		key:           items,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// FollowerCount 粉丝数量
func (a *API) FollowerCount(c *gin.Context) {
	a.followCount(c, a.follows.FollowerCount, "follower_count")
}

// FollowingCount 关注数量
func (a *API) FollowingCount(c *gin.Context) {
	a.followCount(c, a.follows.FollowingCount, "following_count")
}

func (a *API) followCount(c *gin.Context, count func(uint) (int64, error), key string) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	total, err := count(id)
	if err != nil {
		handleProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: total})
}

// FollowProfile 关注用户，重复关注视为成功
func (a *API) FollowProfile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.follows.Follow(currentProfileID(c), id); err != nil {
		handleProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnfollowProfile 取消关注
func (a *API) UnfollowProfile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.follows.Unfollow(currentProfileID(c), id); err != nil {
		handleProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListProfileArtworks 分页返回某用户的作品
func (a *API) ListProfileArtworks(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("per_page", "12"), 12)

	result, err := a.artworks.ListByProfile(id, page, perPage)
	if err != nil {
		handleProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artworks":    artworkListPayload(result.Items),
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
		"has_more":    result.Page < result.TotalPages,
	})
}

func profilePayload(profile db.Profile) gin.H {
	return gin.H{
		"id":           profile.ID,
		"account_id":   profile.AccountID,
		"display_name": profile.DisplayName,
		"bio":          profile.Bio,
		"avatar_url":   profile.AvatarURL,
		"created_at":   profile.CreatedAt,
	}
}

func handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "用户不存在")
	case errors.Is(err, service.ErrProfileInvalidInput):
		respondError(c, http.StatusBadRequest, "请检查资料长度")
	case errors.Is(err, service.ErrFollowSelf):
		respondError(c, http.StatusBadRequest, "不能关注自己")
	case errors.Is(err, service.ErrFollowNotFound):
		respondError(c, http.StatusNotFound, "尚未关注该用户")
	default:
		respondInternal(c, err, "操作失败")
	}
}
