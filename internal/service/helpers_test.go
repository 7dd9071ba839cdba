package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/unveil/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func seedProfile(t *testing.T, gdb *gorm.DB, name string) db.Profile {
	t.Helper()

	account := db.Account{Name: name, Email: name + "@example.com", Password: "hashed"}
	if err := gdb.Create(&account).Error; err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	profile := db.Profile{AccountID: account.ID, DisplayName: name}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	return profile
}

func seedArtwork(t *testing.T, gdb *gorm.DB, profileID uint, title string, createdAt time.Time) db.Artwork {
	t.Helper()

	artwork := db.Artwork{
		ProfileID:   profileID,
		Title:       title,
		ImageURL:    "/static/uploads/" + title + ".png",
		ImageWidth:  800,
		ImageHeight: 600,
		Orientation: db.OrientationLandscape,
	}
	artwork.CreatedAt = createdAt
	if err := gdb.Create(&artwork).Error; err != nil {
		t.Fatalf("failed to seed artwork: %v", err)
	}
	return artwork
}

func seedView(t *testing.T, gdb *gorm.DB, profileID, artworkID uint) {
	t.Helper()

	if err := gdb.Create(&db.View{ProfileID: profileID, ArtworkID: artworkID}).Error; err != nil {
		t.Fatalf("failed to seed view: %v", err)
	}
}

func artworkIDs(items []db.Artwork) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
