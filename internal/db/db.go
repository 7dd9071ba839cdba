package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述数据库连接方式。
type Options struct {
	Driver string // sqlite 或 postgres
	Path   string // sqlite 文件路径
	DSN    string // postgres 连接串
}

// RegisteredModel 描述一个可被后台浏览的模型。
type RegisteredModel struct {
	Name  string
	Model interface{}
	// NewSlice 返回用于 Find 的切片指针
	NewSlice func() interface{}
}

// Models 返回全部受管模型，顺序即迁移顺序。
func Models() []RegisteredModel {
	return []RegisteredModel{
		{Name: "accounts", Model: &Account{}, NewSlice: func() interface{} { return &[]Account{} }},
		{Name: "profiles", Model: &Profile{}, NewSlice: func() interface{} { return &[]Profile{} }},
		{Name: "artworks", Model: &Artwork{}, NewSlice: func() interface{} { return &[]Artwork{} }},
		{Name: "comments", Model: &Comment{}, NewSlice: func() interface{} { return &[]Comment{} }},
		{Name: "follows", Model: &Follow{}, NewSlice: func() interface{} { return &[]Follow{} }},
		{Name: "sentiments", Model: &Sentiment{}, NewSlice: func() interface{} { return &[]Sentiment{} }},
		{Name: "views", Model: &View{}, NewSlice: func() interface{} { return &[]View{} }},
	}
}

// Init 初始化数据库连接并执行自动迁移。
// sqlite 路径为空时将回退到默认值 unveil.db。
func Init(opts Options) error {
	gdb, err := Open(opts, logger.Default.LogMode(logger.Warn))
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open 按 Options 打开连接但不做迁移。
func Open(opts Options, log logger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: log}

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "postgres":
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, errors.New("postgres driver requires a DSN")
		}
		return gorm.Open(postgres.Open(opts.DSN), cfg)
	case "", "sqlite":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "unveil.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// Migrate 为全部模型创建或更新表结构。
func Migrate(gdb *gorm.DB) error {
	models := Models()
	targets := make([]interface{}, 0, len(models))
	for _, m := range models {
		targets = append(targets, m.Model)
	}
	return gdb.AutoMigrate(targets...)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
