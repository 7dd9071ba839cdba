package service

import (
	"errors"
	"sort"

	"github.com/unveil/internal/db"
	"gorm.io/gorm"
)

// ErrModelNotRegistered 请求的模型未在后台注册
var ErrModelNotRegistered = errors.New("model not registered")

// AdminService 为后台提供全部模型的只读浏览，字段原样输出。
type AdminService struct {
	db     *gorm.DB
	models map[string]db.RegisteredModel
}

// ModelPage 某个模型的一页数据
type ModelPage struct {
	Name       string
	Rows       interface{}
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewAdminService 以 db.Models() 注册全部模型
func NewAdminService(gdb *gorm.DB) *AdminService {
	models := make(map[string]db.RegisteredModel)
	for _, m := range db.Models() {
		models[m.Name] = m
	}
	return &AdminService{db: gdb, models: models}
}

// ModelNames 返回已注册模型名，按字母序
func (s *AdminService) ModelNames() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List 分页列出模型数据，按主键升序
func (s *AdminService) List(name string, page, perPage int) (ModelPage, error) {
	result := ModelPage{
		Name:    name,
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	model, ok := s.models[name]
	if !ok {
		return result, ErrModelNotRegistered
	}

	if err := s.db.Model(model.Model).Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	rows := model.NewSlice()
	if err := s.db.Model(model.Model).
		Order("id asc").
		Limit(result.PerPage).
		Offset((result.Page - 1) * result.PerPage).
		Find(rows).Error; err != nil {
		return result, err
	}
	result.Rows = rows
	return result, nil
}
