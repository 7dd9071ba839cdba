package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Account 保存登录凭据，邮箱作为登录标识。
type Account struct {
	gorm.Model
	Name     string `gorm:"size:80;not null"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"`
	IsStaff  bool   `gorm:"default:false"`
}

// NormalizeEmail 统一邮箱大小写与空白，保证唯一索引生效。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureAdmin 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员账号及其 Profile。已存在的账号会被标记为管理员。
func EnsureAdmin(email, password string) error {
	trimmedEmail := NormalizeEmail(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing Account
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Transaction(func(tx *gorm.DB) error {
			account := Account{
				Name:     "admin",
				Email:    trimmedEmail,
				Password: string(hashed),
				IsStaff:  true,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
			return tx.Create(&Profile{AccountID: account.ID, DisplayName: account.Name}).Error
		})
	}

	if existing.IsStaff {
		return nil
	}
	return DB.Model(&existing).Update("is_staff", true).Error
}
