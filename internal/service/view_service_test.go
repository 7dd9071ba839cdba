package service

import (
	"errors"
	"testing"
	"time"

	"github.com/unveil/internal/db"
)

func TestViewRecordFirstViewOnly(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")
	item := seedArtwork(t, gdb, owner.ID, "art", time.Now())
	svc := NewViewService(gdb)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	created, err := svc.Record(viewer.ID, item.ID, base)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if !created {
		t.Fatal("expected first view to be recorded")
	}

	created, err = svc.Record(viewer.ID, item.ID, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("second record failed: %v", err)
	}
	if created {
		t.Fatal("expected repeated view to be ignored")
	}

	var stored db.View
	if err := gdb.Where("profile_id = ? AND artwork_id = ?", viewer.ID, item.ID).First(&stored).Error; err != nil {
		t.Fatalf("failed to load view: %v", err)
	}
	if !stored.CreatedAt.Equal(base) {
		t.Fatalf("expected first view timestamp to be kept, got %s", stored.CreatedAt)
	}

	if _, err := svc.Record(0, item.ID, base); err == nil {
		t.Fatal("expected error for missing profile id")
	}
}

func TestViewersAndStats(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	first := seedProfile(t, gdb, "first")
	second := seedProfile(t, gdb, "second")
	item := seedArtwork(t, gdb, owner.ID, "art", time.Now())
	svc := NewViewService(gdb)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Record(first.ID, item.ID, base); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := svc.Record(second.ID, item.ID, base.Add(time.Minute)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := NewSentimentService(gdb).Like(first.ID, item.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := NewSentimentService(gdb).Dislike(second.ID, item.ID); err != nil {
		t.Fatalf("dislike failed: %v", err)
	}
	if _, err := NewCommentService(gdb).Post(first.ID, item.ID, "好"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	viewers, err := svc.Viewers(item.ID)
	if err != nil {
		t.Fatalf("viewers failed: %v", err)
	}
	if len(viewers) != 2 || viewers[0].ProfileID != second.ID {
		t.Fatalf("expected latest viewer first, got %#v", viewers)
	}

	count, err := svc.Count(item.ID)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 views, got %d (err %v)", count, err)
	}

	stats, err := svc.Stats(item.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	want := ArtworkStats{Views: 2, Likes: 1, Dislikes: 1, Comments: 1}
	if stats != want {
		t.Fatalf("expected %#v, got %#v", want, stats)
	}

	if _, err := svc.Stats(item.ID + 1); !errors.Is(err, ErrArtworkNotFound) {
		t.Fatalf("expected ErrArtworkNotFound, got %v", err)
	}
}
