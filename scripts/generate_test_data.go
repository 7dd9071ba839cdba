package main

import (
	"fmt"
	"os"
	"time"

	"github.com/unveil/internal/config"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/logging"
	"github.com/unveil/internal/service"
)

const seedPassword = "password123"

type seedArtwork struct {
	title   string
	content string
	width   int
	height  int
}

var seedMembers = []struct {
	name  string
	email string
	bio   string
}{
	{name: "林晚", email: "linwan@example.com", bio: "水彩与城市速写"},
	{name: "周野", email: "zhouye@example.com", bio: "胶片街头摄影"},
	{name: "Mia", email: "mia@example.com", bio: "Digital painting, mostly landscapes"},
}

var seedArtworks = []seedArtwork{
	{title: "雨后的巷口", content: "**水彩**，A4 纸本。", width: 1600, height: 1067},
	{title: "清晨渡口", content: "胶片 Portra 400。", width: 1067, height: 1600},
	{title: "窗", content: "方画幅练习。", width: 1200, height: 1200},
	{title: "Harbor at Dusk", content: "Procreate, 3 hours.", width: 1920, height: 1080},
	{title: "山间小屋", content: "- 铅笔起稿\n- 水彩上色", width: 1080, height: 1350},
	{title: "旧书店", content: "速写本里的一页。", width: 1500, height: 1000},
	{title: "Moss", content: "Macro study.", width: 1000, height: 1000},
	{title: "夜班车", content: "ISO 3200，手持。", width: 1350, height: 1080},
}

// 测试数据生成器
func main() {
	cfg := config.Load()
	if err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := db.Init(db.Options{Driver: cfg.DatabaseDriver, Path: cfg.DatabasePath, DSN: cfg.DatabaseDSN}); err != nil {
		logging.Log.Fatalw("数据库初始化失败", "error", err)
	}

	logging.Log.Info("开始生成测试数据...")

	profiles := createTestMembers()
	artworks := createTestArtworks(profiles)
	createTestFollows(profiles)
	createTestViews(profiles, artworks)

	logging.Log.Infow("测试数据生成完成",
		"members", len(profiles),
		"artworks", len(artworks),
		"password", seedPassword,
	)
}

// 创建测试账号，已存在的邮箱直接复用
func createTestMembers() []db.Profile {
	accounts := service.NewAccountService(db.DB)
	profiles := service.NewProfileService(db.DB)

	result := make([]db.Profile, 0, len(seedMembers))
	for _, member := range seedMembers {
		var existing db.Account
		if err := db.DB.Where("email = ?", member.email).First(&existing).Error; err == nil {
			profile, err := profiles.GetByAccount(existing.ID)
			if err != nil {
				logging.Log.Warnw("读取已有用户失败", "email", member.email, "error", err)
				continue
			}
			result = append(result, *profile)
			continue
		}

		_, profile, err := accounts.CreateAccount(service.AccountInput{
			Name:     member.name,
			Email:    member.email,
			Password: seedPassword,
		})
		if err != nil {
			logging.Log.Warnw("创建用户失败", "email", member.email, "error", err)
			continue
		}
		if _, err := profiles.Update(profile.ID, service.ProfileInput{DisplayName: &member.name, Bio: &member.bio}); err != nil {
			logging.Log.Warnw("更新资料失败", "profile_id", profile.ID, "error", err)
		}
		result = append(result, *profile)
	}

	logging.Log.Infow("✅ 测试用户创建完成", "count", len(result))
	return result
}

// 按作者轮流创建作品，创建时间依次错开
func createTestArtworks(profiles []db.Profile) []db.Artwork {
	if len(profiles) == 0 {
		return nil
	}

	var count int64
	db.DB.Model(&db.Artwork{}).Count(&count)
	if count > 0 {
		logging.Log.Info("作品已存在，跳过创建")
		var existing []db.Artwork
		db.DB.Order("id asc").Find(&existing)
		return existing
	}

	svc := service.NewArtworkService(db.DB, nil)
	now := time.Now()
	result := make([]db.Artwork, 0, len(seedArtworks))
	for idx, data := range seedArtworks {
		owner := profiles[idx%len(profiles)]
		artwork, err := svc.Create(owner.ID, service.ArtworkInput{
			Title:       data.title,
			Content:     data.content,
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/unveil-%d/%d/%d", idx+1, data.width, data.height),
			ImageWidth:  data.width,
			ImageHeight: data.height,
		})
		if err != nil {
			logging.Log.Warnw("创建作品失败", "title", data.title, "error", err)
			continue
		}

		createdAt := now.Add(-time.Duration(len(seedArtworks)-idx) * 6 * time.Hour)
		if err := db.DB.Model(artwork).Update("created_at", createdAt).Error; err != nil {
			logging.Log.Warnw("更新创建时间失败", "artwork_id", artwork.ID, "error", err)
		}
		artwork.CreatedAt = createdAt
		result = append(result, *artwork)
	}

	logging.Log.Infow("✅ 测试作品创建完成", "count", len(result))
	return result
}

// 每个用户关注下一位用户
func createTestFollows(profiles []db.Profile) {
	if len(profiles) < 2 {
		return
	}

	svc := service.NewFollowService(db.DB)
	for idx, profile := range profiles {
		target := profiles[(idx+1)%len(profiles)]
		if err := svc.Follow(profile.ID, target.ID); err != nil {
			logging.Log.Warnw("创建关注失败", "follower", profile.ID, "followed", target.ID, "error", err)
		}
	}
	logging.Log.Info("✅ 测试关注关系创建完成")
}

// 第一位用户浏览前一半作品，便于观察未看作品接口
func createTestViews(profiles []db.Profile, artworks []db.Artwork) {
	if len(profiles) == 0 || len(artworks) == 0 {
		return
	}

	svc := service.NewViewService(db.DB)
	viewer := profiles[0]
	recorded := 0
	for _, artwork := range artworks[:len(artworks)/2] {
		created, err := svc.Record(viewer.ID, artwork.ID, time.Now())
		if err != nil {
			logging.Log.Warnw("记录浏览失败", "artwork_id", artwork.ID, "error", err)
			continue
		}
		if created {
			recorded++
		}
	}
	logging.Log.Infow("✅ 测试浏览记录创建完成", "viewer", viewer.ID, "count", recorded)
}
