package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/unveil/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrAccountInvalidInput 在注册信息不完整或格式错误时返回
	ErrAccountInvalidInput = errors.New("invalid account input")
	// ErrAccountEmailTaken 在邮箱已被注册时返回
	ErrAccountEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 在邮箱或密码不匹配时返回
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound 在账号不存在时返回
	ErrAccountNotFound = errors.New("account not found")

	// 以下为 ErrAccountInvalidInput 的具体原因，调用方可用 errors.Is 区分
	ErrAccountNameRequired     = errors.New("name is required")
	ErrAccountNameTooLong      = errors.New("name too long")
	ErrAccountEmailRequired    = errors.New("email is required")
	ErrAccountEmailMalformed   = errors.New("email is malformed")
	ErrAccountPasswordTooShort = errors.New("password too short")
	ErrAccountPasswordTooLong  = errors.New("password too long")
)

const (
	minPasswordLength = 8
	// bcrypt 只接受不超过 72 字节的密码
	maxPasswordBytes = 72
	maxNameLength    = 80
)

// AccountService 负责注册与凭据校验。
type AccountService struct {
	db   *gorm.DB
	cost int
}

// AccountInput 注册时提交的字段
type AccountInput struct {
	Name     string
	Password string
	Email    string
}

// NewAccountService 创建 AccountService，使用 bcrypt 默认强度。
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb, cost: bcrypt.DefaultCost}
}

// WithHashCost 调整 bcrypt 强度，测试中用 bcrypt.MinCost 加速。
func (s *AccountService) WithHashCost(cost int) *AccountService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return s
	}
	s.cost = cost
	return s
}

// CreateAccount 在同一事务中创建账号及其 Profile。
func (s *AccountService) CreateAccount(input AccountInput) (*db.Account, *db.Profile, error) {
	name := strings.TrimSpace(input.Name)
	email := db.NormalizeEmail(input.Email)
	if err := validateAccountInput(name, email, input.Password); err != nil {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	account := db.Account{Name: name, Email: email, Password: string(hashed)}
	var profile db.Profile

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAccountEmailTaken
		}

		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		profile = db.Profile{AccountID: account.ID, DisplayName: name}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if errors.Is(err, ErrAccountEmailTaken) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	return &account, &profile, nil
}

// Authenticate 校验邮箱与密码，失败统一返回 ErrInvalidCredentials。
func (s *AccountService) Authenticate(email, password string) (*db.Account, error) {
	var account db.Account
	if err := s.db.Where("email = ?", db.NormalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

// Get 根据主键获取账号
func (s *AccountService) Get(id uint) (*db.Account, error) {
	var account db.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

func validateAccountInput(name, email, password string) error {
	var cause error
	switch {
	case name == "":
		cause = ErrAccountNameRequired
	case len([]rune(name)) > maxNameLength:
		cause = ErrAccountNameTooLong
	case email == "":
		cause = ErrAccountEmailRequired
	case !validEmail(email):
		cause = ErrAccountEmailMalformed
	case len(password) < minPasswordLength:
		cause = ErrAccountPasswordTooShort
	case len(password) > maxPasswordBytes:
		cause = ErrAccountPasswordTooLong
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAccountInvalidInput, cause)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
