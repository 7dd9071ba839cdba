package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/service"
)

type createAccountRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type tokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAccount 注册账号并同时创建 Profile
func (a *API) CreateAccount(c *gin.Context) {
	var payload createAccountRequest
	if !bindJSON(c, &payload, "请填写名称、邮箱与密码") {
		return
	}

	account, profile, err := a.accounts.CreateAccount(service.AccountInput{
		Name:     payload.Name,
		Password: payload.Password,
		Email:    payload.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountInvalidInput):
			respondError(c, http.StatusBadRequest, accountInputMessage(err))
		case errors.Is(err, service.ErrAccountEmailTaken):
			respondError(c, http.StatusConflict, "该邮箱已注册")
		default:
			respondInternal(c, err, "注册失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"account": accountPayload(*account),
		"profile": profilePayload(*profile),
	})
}

// IssueToken 校验邮箱密码并签发访问令牌
func (a *API) IssueToken(c *gin.Context) {
	var payload tokenRequest
	if !bindJSON(c, &payload, "请填写邮箱与密码") {
		return
	}

	account, err := a.accounts.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
			return
		}
		respondInternal(c, err, "登录失败")
		return
	}

	profile, err := a.profiles.GetByAccount(account.ID)
	if err != nil {
		respondInternal(c, err, "登录失败")
		return
	}

	token, expiresAt, err := a.tokens.Issue(account.ID, profile.ID)
	if err != nil {
		respondInternal(c, err, "登录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"profile_id": profile.ID,
	})
}

// CurrentAccount 返回令牌对应的账号与 Profile
func (a *API) CurrentAccount(c *gin.Context) {
	account, err := a.accounts.Get(currentAccountID(c))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(c, http.StatusUnauthorized, "账号不存在")
			return
		}
		respondInternal(c, err, "获取账号失败")
		return
	}

	profile, err := a.profiles.Get(currentProfileID(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusUnauthorized, "账号不存在")
			return
		}
		respondInternal(c, err, "获取账号失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": accountPayload(*account),
		"profile": profilePayload(*profile),
	})
}

func accountInputMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAccountNameRequired):
		return "名称不能为空"
	case errors.Is(err, service.ErrAccountNameTooLong):
		return "名称不能超过80个字符"
	case errors.Is(err, service.ErrAccountEmailRequired):
		return "邮箱不能为空"
	case errors.Is(err, service.ErrAccountEmailMalformed):
		return "邮箱格式不正确"
	case errors.Is(err, service.ErrAccountPasswordTooShort):
		return "密码至少需要8个字符"
	case errors.Is(err, service.ErrAccountPasswordTooLong):
		return "密码不能超过72个字节"
	default:
		return "注册信息不正确"
	}
}

func accountPayload(account db.Account) gin.H {
	return gin.H{
		"id":         account.ID,
		"name":       account.Name,
		"email":      account.Email,
		"created_at": account.CreatedAt,
	}
}
