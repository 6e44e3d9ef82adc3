package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/blart-ai/blart-server/internal/db"
	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	if err := db.CreateTables(context.Background(), bunDB); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	return bunDB
}

func seedStyle(t *testing.T, repo IStyleRepository, name string, sortOrder int, active bool) *models.Style {
	t.Helper()

	style := models.NewStyle(name, name, "Create a "+name+" artwork", "", sortOrder)
	style.IsActive = active
	if _, err := repo.Create(context.Background(), style); err != nil {
		t.Fatalf("failed to create style: %v", err)
	}
	return style
}

func newArtwork(style *models.Style, slug string, status models.ArtworkStatus, tags ...string) *models.Artwork {
	now := time.Now().UTC()
	artwork := &models.Artwork{
		ID:          uuid.Must(uuid.NewRandom()),
		Title:       slug,
		Slug:        slug,
		StyleID:     style.ID,
		Tags:        tags,
		Colors:      []string{"#000000"},
		Orientation: models.OrientationSquare,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.ArtworkStatusPublished {
		artwork.PublishedAt = bun.NullTime{Time: now}
	}
	return artwork
}

func TestStyleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStyleRepository(newTestDB(t))

	next, err := repo.NextSortOrder(ctx)
	if err != nil || next != 0 {
		t.Fatalf("NextSortOrder() on empty table = %d, %v", next, err)
	}

	seedStyle(t, repo, "surreal", 2, true)
	abstract := seedStyle(t, repo, "abstract", 0, true)
	seedStyle(t, repo, "texture", 1, false)

	t.Run("list orders by sort order", func(t *testing.T) {
		styles, err := repo.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		got := []string{}
		for _, s := range styles {
			got = append(got, s.Slug)
		}
		if fmt.Sprint(got) != "[abstract texture surreal]" {
			t.Errorf("List() = %v", got)
		}
	})

	t.Run("list active skips inactive", func(t *testing.T) {
		styles, err := repo.ListActive(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(styles) != 2 || styles[0].Slug != "abstract" || styles[1].Slug != "surreal" {
			t.Errorf("ListActive() = %+v", styles)
		}
	})

	t.Run("next sort order", func(t *testing.T) {
		next, err := repo.NextSortOrder(ctx)
		if err != nil || next != 3 {
			t.Errorf("NextSortOrder() = %d, %v; want 3", next, err)
		}
	})

	t.Run("reference images", func(t *testing.T) {
		id := abstract.ID.String()
		if _, err := repo.AppendReferenceImage(ctx, id, "https://cdn/a.png"); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.AppendReferenceImage(ctx, id, "https://cdn/b.png"); err != nil {
			t.Fatal(err)
		}
		style, err := repo.RemoveReferenceImage(ctx, id, "https://cdn/a.png")
		if err != nil {
			t.Fatal(err)
		}

		stored, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if len(stored.ReferenceImages) != 1 || stored.ReferenceImages[0] != "https://cdn/b.png" {
			t.Errorf("stored reference images = %v", stored.ReferenceImages)
		}
		if len(style.ReferenceImages) != 1 {
			t.Errorf("returned reference images = %v", style.ReferenceImages)
		}
	})

	t.Run("missing style", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		if !IsNotFound(err) {
			t.Errorf("GetByID() error = %v, want not found", err)
		}
	})
}

func TestArtworkRepository(t *testing.T) {
	ctx := context.Background()
	bunDB := newTestDB(t)
	styles := NewStyleRepository(bunDB)
	repo := NewArtworkRepository(bunDB)

	abstract := seedStyle(t, styles, "abstract", 0, true)
	celestial := seedStyle(t, styles, "celestial", 1, true)

	fixtures := []*models.Artwork{
		newArtwork(abstract, "drift-1", models.ArtworkStatusPublished, "ai-art", "bold"),
		newArtwork(abstract, "drift-2", models.ArtworkStatusReview, "ai-art"),
		newArtwork(celestial, "nova-1", models.ArtworkStatusPublished, "ai-art", "cosmic"),
	}
	fixtures[2].DownloadCount = 5
	for _, a := range fixtures {
		if _, err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query GalleryQuery
		want  []string
	}{
		{"all published", GalleryQuery{Limit: 20, Sort: GallerySortMostDownloaded}, []string{"nova-1", "drift-1"}},
		{"by style", GalleryQuery{StyleSlug: "celestial", Limit: 20}, []string{"nova-1"}},
		{"by tag", GalleryQuery{Tag: "bold", Limit: 20}, []string{"drift-1"}},
		{"featured only", GalleryQuery{Featured: true, Limit: 20}, []string{}},
		{"offset", GalleryQuery{Limit: 20, Offset: 1, Sort: GallerySortMostDownloaded}, []string{"drift-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artworks, err := repo.ListPublished(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got := []string{}
			for _, a := range artworks {
				got = append(got, a.Slug)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("ListPublished() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("published lookup hides review items", func(t *testing.T) {
		if _, err := repo.GetPublishedBySlug(ctx, "drift-2"); !IsNotFound(err) {
			t.Errorf("GetPublishedBySlug() error = %v, want not found", err)
		}
		artwork, err := repo.GetPublishedBySlug(ctx, "drift-1")
		if err != nil {
			t.Fatal(err)
		}
		if artwork.Style == nil || artwork.Style.Slug != "abstract" {
			t.Errorf("style relation not loaded: %+v", artwork.Style)
		}
	})

	t.Run("increment stat", func(t *testing.T) {
		id := fixtures[0].ID.String()
		for i := 0; i < 2; i++ {
			if err := repo.IncrementStat(ctx, id, "view"); err != nil {
				t.Fatal(err)
			}
		}
		if err := repo.IncrementStat(ctx, id, "likes"); err == nil {
			t.Error("expected error for unknown stat")
		}

		artwork, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if artwork.ViewCount != 2 {
			t.Errorf("ViewCount = %d, want 2", artwork.ViewCount)
		}
	})

	t.Run("publish sets published_at", func(t *testing.T) {
		artwork, err := repo.GetBySlug(ctx, "drift-2")
		if err != nil {
			t.Fatal(err)
		}
		artwork.SetStatus(models.ArtworkStatusPublished, time.Now().UTC())
		if err := repo.UpdateColumns(ctx, artwork, "status", "published_at"); err != nil {
			t.Fatal(err)
		}

		stored, err := repo.GetPublishedBySlug(ctx, "drift-2")
		if err != nil {
			t.Fatal(err)
		}
		if stored.PublishedAt.IsZero() {
			t.Error("published_at not set")
		}
	})

	t.Run("count by style", func(t *testing.T) {
		n, err := repo.CountByStyle(ctx, abstract.ID.String())
		if err != nil || n != 2 {
			t.Errorf("CountByStyle() = %d, %v; want 2", n, err)
		}
	})
}

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingRepository(newTestDB(t))

	if _, found, err := repo.GetValue(ctx, models.SettingBasePrompt); err != nil || found {
		t.Fatalf("GetValue() on empty table = found %v, err %v", found, err)
	}

	if _, err := repo.Upsert(ctx, models.SettingBasePrompt, "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Upsert(ctx, models.SettingBasePrompt, "second"); err != nil {
		t.Fatal(err)
	}

	value, found, err := repo.GetValue(ctx, models.SettingBasePrompt)
	if err != nil || !found || value != "second" {
		t.Errorf("GetValue() = %q, %v, %v", value, found, err)
	}

	settings, err := repo.List(ctx)
	if err != nil || len(settings) != 1 {
		t.Errorf("List() = %v, %v", settings, err)
	}
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))

	event, err := models.NewEvent(models.EventGenerationFailed, "style-1", "", map[string]string{"error": "generation blocked: SAFETY"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Create(ctx, event); err != nil {
		t.Fatal(err)
	}

	events, err := repo.ListRecent(ctx, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("ListRecent() = %v, %v", events, err)
	}

	var payload map[string]string
	if err := events[0].Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload["error"] != "generation blocked: SAFETY" {
		t.Errorf("payload = %v", payload)
	}
}

func TestPrintProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPrintProductRepository(newTestDB(t))

	products := []*models.PrintProduct{
		{Name: "Large", SizeLabel: "A1", SKU: "GLOBAL-CFPM-A1", RetailPriceAUD: 18900, IsActive: true, SortOrder: 2},
		{Name: "Small", SizeLabel: "A4", SKU: "GLOBAL-CFPM-A4", RetailPriceAUD: 7900, IsActive: true, SortOrder: 0},
		{Name: "Retired", SizeLabel: "A2", SKU: "GLOBAL-CFPM-A2", RetailPriceAUD: 12900, SortOrder: 1},
	}
	for _, p := range products {
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 3 || all[0].SizeLabel != "A4" || all[1].SizeLabel != "A2" {
		t.Fatalf("List() = %v, %v", all, err)
	}
	if all[0].FrameColors == nil {
		t.Error("frame colors should default to an empty list")
	}

	active, err := repo.ListActive(ctx)
	if err != nil || len(active) != 2 || active[1].SizeLabel != "A1" {
		t.Errorf("ListActive() = %v, %v", active, err)
	}
}

func TestAPIKeyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAPIKeyRepository(newTestDB(t))

	key := models.NewAPIKey("hash-1", "blart_****abcd")
	if _, err := repo.Create(ctx, key); err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetAPIKeyWithHash(ctx, "hash-1")
	if err != nil || found.IsRevoked {
		t.Fatalf("GetAPIKeyWithHash() = %v, %v", found, err)
	}

	if err := repo.RevokeAPIKeyWithHash(ctx, "hash-1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.RevokeAPIKeyWithHash(ctx, "missing"); err == nil {
		t.Error("revoking an unknown key should fail")
	}

	found, _ = repo.GetAPIKeyWithHash(ctx, "hash-1")
	if !found.IsRevoked {
		t.Error("key not revoked")
	}

	if _, err := repo.GetAPIKeyWithHash(ctx, "missing"); err == nil {
		t.Error("expected an error for an unknown hash")
	}

	keys, err := repo.ListAPIKeys(ctx)
	if err != nil || len(keys) != 1 {
		t.Errorf("ListAPIKeys() = %v, %v", keys, err)
	}
}

func TestStyleReferenceImagesConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	repo := NewStyleRepository(newTestDB(t))
	style := seedStyle(t, repo, "celestial", 0, true)
	id := style.ID.String()

	const uploads = 8
	var wg sync.WaitGroup
	errs := make(chan error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AppendReferenceImage(ctx, id, fmt.Sprintf("https://cdn/%d.png", i)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("AppendReferenceImage() error = %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ReferenceImages) != uploads {
		t.Errorf("reference images = %d, want %d: %v", len(got.ReferenceImages), uploads, got.ReferenceImages)
	}
}
