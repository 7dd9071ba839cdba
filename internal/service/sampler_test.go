package service

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/unveil/internal/db"
)

// countingRand 依次返回 values（对 n 取模），并记录调用次数。
type countingRand struct {
	values []int
	calls  int
}

func (r *countingRand) IntN(n int) int {
	v := r.values[r.calls%len(r.values)] % n
	r.calls++
	return v
}

func TestSamplerEmptyStoreReturnsEmpty(t *testing.T) {
	gdb := setupServiceTestDB(t)
	viewer := seedProfile(t, gdb, "viewer")

	rnd := &countingRand{values: []int{0}}
	sampler := NewUnseenSampler(gdb).WithRand(rnd.IntN)

	random, err := sampler.Random(viewer.ID, 5)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(random) != 0 {
		t.Fatalf("expected no artworks, got %d", len(random))
	}
	if rnd.calls != 0 {
		t.Fatalf("expected no draws on an empty table, got %d", rnd.calls)
	}

	ordered, err := sampler.Ordered(viewer.ID, 0, 5)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	if len(ordered) != 0 {
		t.Fatalf("expected no artworks, got %d", len(ordered))
	}
}

func TestSamplerUnknownProfile(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	seedArtwork(t, gdb, owner.ID, "a", time.Now())

	sampler := NewUnseenSampler(gdb)
	if _, err := sampler.Random(owner.ID+100, 5); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound from random, got %v", err)
	}
	if _, err := sampler.Ordered(owner.ID+100, 0, 5); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound from ordered, got %v", err)
	}
}

func TestSamplerExampleStore(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := seedArtwork(t, gdb, owner.ID, "a", base.Add(1*time.Second))
	b := seedArtwork(t, gdb, owner.ID, "b", base.Add(2*time.Second))
	c := seedArtwork(t, gdb, owner.ID, "c", base.Add(3*time.Second))
	seedView(t, gdb, viewer.ID, a.ID)

	sampler := NewUnseenSampler(gdb)

	ordered, err := sampler.Ordered(viewer.ID, 0, 5)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	if got, want := artworkIDs(ordered), []uint{c.ID, b.ID}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := 0; i < 20; i++ {
		random, err := sampler.Random(viewer.ID, 5)
		if err != nil {
			t.Fatalf("random failed: %v", err)
		}
		if len(random) > 2 {
			t.Fatalf("expected at most 2 unseen artworks, got %v", artworkIDs(random))
		}
		seen := map[uint]bool{}
		for _, item := range random {
			if item.ID == a.ID {
				t.Fatalf("random returned a viewed artwork")
			}
			if item.ID != b.ID && item.ID != c.ID {
				t.Fatalf("random returned unexpected artwork %d", item.ID)
			}
			if seen[item.ID] {
				t.Fatalf("random returned artwork %d twice", item.ID)
			}
			seen[item.ID] = true
		}
	}
}

func TestSamplerRandomRespectsDrawBudget(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		item := seedArtwork(t, gdb, owner.ID, "seen", base.Add(time.Duration(i)*time.Minute))
		seedView(t, gdb, viewer.ID, item.ID)
	}

	rnd := &countingRand{values: []int{0, 1, 2, 3}}
	items, err := NewUnseenSampler(gdb).WithRand(rnd.IntN).Random(viewer.ID, 2)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result when everything is seen, got %v", artworkIDs(items))
	}
	if rnd.calls != 6 {
		t.Fatalf("expected exactly 3×limit draws, got %d", rnd.calls)
	}
}

func TestSamplerRandomDuplicateDrawsAreWasted(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := seedArtwork(t, gdb, owner.ID, "first", base)
	seedArtwork(t, gdb, owner.ID, "second", base.Add(time.Minute))

	rnd := &countingRand{values: []int{0}}
	items, err := NewUnseenSampler(gdb).WithRand(rnd.IntN).Random(viewer.ID, 2)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if got := artworkIDs(items); !slices.Equal(got, []uint{first.ID}) {
		t.Fatalf("expected only the first artwork once, got %v", got)
	}
	if rnd.calls != 6 {
		t.Fatalf("expected draw budget of 6 to be exhausted, got %d", rnd.calls)
	}
}

func TestSamplerHugeLimitIsBoundedByStore(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := seedArtwork(t, gdb, owner.ID, "first", base)
	second := seedArtwork(t, gdb, owner.ID, "second", base.Add(time.Minute))
	seedView(t, gdb, viewer.ID, first.ID)

	huge := 1 << 62
	rnd := &countingRand{values: []int{0}}
	items, err := NewUnseenSampler(gdb).WithRand(rnd.IntN).Random(viewer.ID, huge)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected only seen draws, got %v", artworkIDs(items))
	}
	if rnd.calls != 6 {
		t.Fatalf("expected budget of 3×artwork count, got %d draws", rnd.calls)
	}

	items, err = NewUnseenSampler(gdb).Random(viewer.ID, huge)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(items) > 1 || (len(items) == 1 && items[0].ID != second.ID) {
		t.Fatalf("unexpected random result %v", artworkIDs(items))
	}

	ordered, err := NewUnseenSampler(gdb).Ordered(viewer.ID, 0, huge)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	if got := artworkIDs(ordered); !slices.Equal(got, []uint{second.ID}) {
		t.Fatalf("expected only the unseen artwork, got %v", got)
	}
}

func TestSamplerRandomStopsAtLimit(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		seedArtwork(t, gdb, owner.ID, "art", base.Add(time.Duration(i)*time.Minute))
	}

	rnd := &countingRand{values: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	items, err := NewUnseenSampler(gdb).WithRand(rnd.IntN).Random(viewer.ID, 3)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 artworks, got %d", len(items))
	}
	if rnd.calls != 3 {
		t.Fatalf("expected sampling to stop once the limit is met, got %d draws", rnd.calls)
	}
}

func TestSamplerSkipsDeletedArtworks(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	kept := seedArtwork(t, gdb, owner.ID, "kept", base)
	removed := seedArtwork(t, gdb, owner.ID, "removed", base.Add(time.Minute))
	if err := gdb.Delete(&removed).Error; err != nil {
		t.Fatalf("failed to delete artwork: %v", err)
	}

	rnd := &countingRand{values: []int{0, 1}}
	sampler := NewUnseenSampler(gdb).WithRand(rnd.IntN)
	random, err := sampler.Random(viewer.ID, 2)
	if err != nil {
		t.Fatalf("random failed: %v", err)
	}
	if got := artworkIDs(random); !slices.Equal(got, []uint{kept.ID}) {
		t.Fatalf("expected only kept artwork, got %v", got)
	}

	ordered, err := sampler.Ordered(viewer.ID, 0, 5)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	if got := artworkIDs(ordered); !slices.Equal(got, []uint{kept.ID}) {
		t.Fatalf("expected only kept artwork, got %v", got)
	}
}

func TestSamplerOrderedIsDeterministicAndPaginates(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		item := seedArtwork(t, gdb, owner.ID, "art", base.Add(time.Duration(i)*time.Minute))
		if i%3 == 0 {
			seedView(t, gdb, viewer.ID, item.ID)
		}
	}

	sampler := NewUnseenSampler(gdb)
	full, err := sampler.Ordered(viewer.ID, 0, 4)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	again, err := sampler.Ordered(viewer.ID, 0, 4)
	if err != nil {
		t.Fatalf("ordered failed: %v", err)
	}
	if !slices.Equal(artworkIDs(full), artworkIDs(again)) {
		t.Fatalf("expected identical sequences, got %v and %v", artworkIDs(full), artworkIDs(again))
	}
	for i := 1; i < len(full); i++ {
		if !full[i].CreatedAt.Before(full[i-1].CreatedAt) {
			t.Fatalf("expected strictly decreasing creation time at index %d", i)
		}
	}

	first, err := sampler.Ordered(viewer.ID, 0, 2)
	if err != nil {
		t.Fatalf("ordered page 1 failed: %v", err)
	}
	second, err := sampler.Ordered(viewer.ID, 2, 2)
	if err != nil {
		t.Fatalf("ordered page 2 failed: %v", err)
	}
	joined := append(artworkIDs(first), artworkIDs(second)...)
	if !slices.Equal(joined, artworkIDs(full)) {
		t.Fatalf("expected pages to concatenate to %v, got %v", artworkIDs(full), joined)
	}

	var views []db.View
	gdb.Where("profile_id = ?", viewer.ID).Find(&views)
	for _, item := range full {
		for _, v := range views {
			if v.ArtworkID == item.ID {
				t.Fatalf("ordered returned viewed artwork %d", item.ID)
			}
		}
	}
}

func TestSamplerDefaultsAndNoSideEffects(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := seedProfile(t, gdb, "owner")
	viewer := seedProfile(t, gdb, "viewer")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedArtwork(t, gdb, owner.ID, "art", base.Add(time.Duration(i)*time.Minute))
	}

	sampler := NewUnseenSampler(gdb)
	items, err := sampler.Sample(viewer.ID, SampleOrdered, -3, 0)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(items) != DefaultSampleLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultSampleLimit, len(items))
	}

	random, err := sampler.Sample(viewer.ID, SampleRandom, 0, -1)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(random) > DefaultSampleLimit {
		t.Fatalf("expected at most %d artworks, got %d", DefaultSampleLimit, len(random))
	}

	var views int64
	gdb.Model(&db.View{}).Count(&views)
	if views != 0 {
		t.Fatalf("sampling must not record views, found %d", views)
	}
}

func TestParseSampleMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    SampleMode
		wantErr bool
	}{
		{raw: "", want: SampleRandom},
		{raw: "random", want: SampleRandom},
		{raw: "ordered", want: SampleOrdered},
		{raw: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSampleMode(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("expected %q, got %q (err %v)", tt.want, got, err)
			}
		})
	}
}
