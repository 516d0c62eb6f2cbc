package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edushelf/edushelf-catalog/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestResourceRepository_CreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	resource := entity.Resource{Title: "Algebra", Subject: "Mathematics"}
	if err := repo.Create(context.Background(), &resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resource.ID == uuid.Nil {
		t.Errorf("Create did not assign an id")
	}

	loaded, err := repo.FindByID(context.Background(), resource.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.Title != "Algebra" {
		t.Errorf("Title = %q, want Algebra", loaded.Title)
	}
	if loaded.DownloadCount != 0 {
		t.Errorf("DownloadCount = %d, want 0", loaded.DownloadCount)
	}
}

func TestResourceRepository_FindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestResourceRepository_SavePreservesUntouchedFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	seeded := seedResource(t, db, "Algebra", "Intro", "Mathematics", "O-Level", "Textbook", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	loaded, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	loaded.Title = "Algebra II"
	if err := repo.Save(context.Background(), loaded); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("FindByID after save failed: %v", err)
	}
	if reloaded.Title != "Algebra II" {
		t.Errorf("Title = %q, want Algebra II", reloaded.Title)
	}
	if reloaded.FileURL != seeded.FileURL {
		t.Errorf("FileURL changed: %q vs %q", reloaded.FileURL, seeded.FileURL)
	}
	if reloaded.FileType != seeded.FileType {
		t.Errorf("FileType changed: %q vs %q", reloaded.FileType, seeded.FileType)
	}
}

func TestResourceRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	seeded := seedResource(t, db, "Algebra", "", "Mathematics", "O-Level", "Textbook", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := repo.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), seeded.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("row still present after delete: %v", err)
	}
}

func TestResourceRepository_Delete_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestResourceRepository_Recent_LimitsAndOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var newest entity.Resource
	for i := 0; i < 8; i++ {
		newest = seedResource(t, db, "Resource", "", "Mathematics", "O-Level", "Notes", base.Add(time.Duration(i)*time.Hour))
	}

	got, err := repo.Recent(context.Background(), 6)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	if got[0].ID != newest.ID {
		t.Errorf("first result is not the newest row")
	}
}

func TestResourceRepository_IncrementDownloadCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	seeded := seedResource(t, db, "Algebra", "", "Mathematics", "O-Level", "Textbook", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	updated, err := repo.IncrementDownloadCount(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("IncrementDownloadCount failed: %v", err)
	}
	if updated.DownloadCount != 1 {
		t.Errorf("DownloadCount = %d, want 1", updated.DownloadCount)
	}

	loaded, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.DownloadCount != 1 {
		t.Errorf("persisted DownloadCount = %d, want 1", loaded.DownloadCount)
	}
}

func TestResourceRepository_IncrementDownloadCount_Sequential(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	seeded := seedResource(t, db, "Algebra", "", "Mathematics", "O-Level", "Textbook", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := repo.IncrementDownloadCount(context.Background(), seeded.ID); err != nil {
			t.Fatalf("increment %d failed: %v", i, err)
		}
	}

	loaded, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.DownloadCount != n {
		t.Errorf("DownloadCount = %d, want %d", loaded.DownloadCount, n)
	}
}

func TestResourceRepository_IncrementDownloadCount_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	_, err := repo.IncrementDownloadCount(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestResourceRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	a := seedResource(t, db, "Algebra", "", "Mathematics", "O-Level", "Textbook", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := seedResource(t, db, "Calculus", "", "Mathematics", "A-Level", "Notes", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	seedResource(t, db, "Mechanics", "", "Physics", "A-Level", "Notes", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		if _, err := repo.IncrementDownloadCount(context.Background(), a.ID); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
	}
	if _, err := repo.IncrementDownloadCount(context.Background(), b.ID); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalResources != 3 {
		t.Errorf("TotalResources = %d, want 3", stats.TotalResources)
	}
	if stats.TotalDownloads != 4 {
		t.Errorf("TotalDownloads = %d, want 4", stats.TotalDownloads)
	}
	if stats.Subjects != 2 {
		t.Errorf("Subjects = %d, want 2", stats.Subjects)
	}
}

func TestResourceRepository_Stats_EmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	repo := NewResourceRepository(db)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalResources != 0 || stats.TotalDownloads != 0 || stats.Subjects != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}
