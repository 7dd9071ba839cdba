package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/service"
)

const (
	sessionAccountKey = "account_id"
	sessionEmailKey   = "email"
)

type adminLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AdminLogin 处理后台登录，仅限管理员账号
func (a *API) AdminLogin(c *gin.Context) {
	var payload adminLoginRequest
	if err := c.ShouldBind(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "请填写邮箱与密码")
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
	if !account.IsStaff {
		respondError(c, http.StatusForbidden, "该账号没有后台权限")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(sessionAccountKey, account.ID)
	session.Set(sessionEmailKey, account.Email)
	if err := session.Save(); err != nil {
		respondInternal(c, err, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "email": account.Email})
}

// AdminLogout 清除后台会话
func (a *API) AdminLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondInternal(c, err, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminRequired 是后台接口的会话校验中间件，每次请求都重新确认管理员身份
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		accountID, ok := session.Get(sessionAccountKey).(uint)
		if !ok || accountID == 0 {
			respondError(c, http.StatusUnauthorized, "请先登录后台")
			c.Abort()
			return
		}

		account, err := a.accounts.Get(accountID)
		if err != nil && !errors.Is(err, service.ErrAccountNotFound) {
			respondInternal(c, err, "获取账号失败")
			c.Abort()
			return
		}
		if err != nil || !account.IsStaff {
			// 账号已删除或被撤销管理员权限，作废会话
			session.Clear()
			_ = session.Save()
			if err != nil {
				respondError(c, http.StatusUnauthorized, "请先登录后台")
			} else {
				respondError(c, http.StatusForbidden, "该账号没有后台权限")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// ListModels 列出后台注册的全部模型
func (a *API) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": a.admin.ModelNames()})
}

// ListModelRows 分页返回某个模型的全部字段
func (a *API) ListModelRows(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("per_page", "20"), 20)

	result, err := a.admin.List(c.Param("name"), page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrModelNotRegistered) {
			respondError(c, http.StatusNotFound, "模型不存在")
			return
		}
		respondInternal(c, err, "获取数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model":       result.Name,
		"rows":        result.Rows,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}
