package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/locale"
)

var messageCatalog = locale.Catalog{
	"请先登录":        "please sign in first",
	"请先登录后台":      "please sign in to the admin first",
	"请填写名称、邮箱与密码": "name, email and password are required",
	"请填写邮箱与密码":    "email and password are required",
	"该邮箱已注册":      "email already registered",
	"邮箱或密码错误":     "invalid email or password",
	"账号不存在":       "account not found",
	"该账号没有后台权限":   "account has no admin access",
	"注册失败":        "registration failed",
	"登录失败":        "sign in failed",
	"会话保存失败":      "failed to save session",
	"获取账号失败":      "failed to load account",
	"名称不能为空":      "name is required",
	"名称不能超过80个字符": "name must be at most 80 characters",
	"邮箱不能为空":      "email is required",
	"邮箱格式不正确":     "email is malformed",
	"密码至少需要8个字符":  "password must be at least 8 characters",
	"密码不能超过72个字节": "password must be at most 72 bytes",
	"注册信息不正确":     "invalid registration details",

	"无效的用户ID": "invalid profile id",
	"用户不存在":   "profile not found",
	"获取用户失败":  "failed to load profile",
	"资料格式不正确": "invalid profile payload",
	"请检查资料长度": "display name or bio is too long",
	"资料已更新":   "profile updated",
	"不能关注自己":  "cannot follow yourself",
	"尚未关注该用户": "not following this profile",

	"无效的作品ID":                           "invalid artwork id",
	"作品不存在":                             "artwork not found",
	"作品已删除":                             "artwork deleted",
	"获取作品失败":                            "failed to load artwork",
	"只能修改自己的作品":                         "only the owner can modify this artwork",
	"标题不能为空":                            "title is required",
	"标题不能为空且不超过120个字符":                  "title is required and must be at most 120 characters",
	"请上传作品图片":                           "an image is required",
	"方向只能是 landscape、portrait 或 square": "orientation must be landscape, portrait or square",
	"未找到上传的图片":                          "image file is missing",
	"只允许上传图片文件":                         "only image files are allowed",
	"无法识别的图片格式":                         "unsupported image format",
	"创建上传目录失败":                          "failed to create upload directory",
	"保存文件失败":                            "failed to save file",
	"mode 只能是 random 或 ordered":         "mode must be random or ordered",

	"无效的评论ID":       "invalid comment id",
	"评论不存在":         "comment not found",
	"评论内容不能为空":      "comment body is required",
	"评论不能超过2000个字符": "comment must be at most 2000 characters",
	"评论格式不正确":       "invalid comment payload",
	"只能删除自己的评论":     "only the author can delete this comment",
	"尚未评价该作品":       "no reaction to clear",

	"模型不存在":  "model not found",
	"获取数据失败": "failed to load rows",
	"操作失败":   "operation failed",
}

// localize 按请求语言返回提示文案
func localize(c *gin.Context, message string) string {
	return messageCatalog.Translate(c.GetString(languageKey), message)
}
