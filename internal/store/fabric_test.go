package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestFabricStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewFabricStore(db)

	name := "test-fabric-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanFabrics(t, db, name) })

	created, err := s.Create(name, "A test weave", "test texture prompt", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if !created.IsActive {
		t.Error("expected new fabric to be active")
	}
	if created.PreviewImageURL != nil {
		t.Error("expected nil preview URL on create")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected fabric, got nil")
	}
	if found.Name != name {
		t.Errorf("name: got %q, want %q", found.Name, name)
	}
}

func TestFabricStoreActiveVisibility(t *testing.T) {
	db := testDB(t)
	s := NewFabricStore(db)

	name := "test-hidden-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanFabrics(t, db, name) })

	created, err := s.Create(name, "soon hidden", "prompt", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetActive(created.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	// Deactivated fabric disappears from the end-user list.
	active, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, f := range active {
		if f.ID == created.ID {
			t.Error("deactivated fabric visible in active list")
		}
	}

	// But the admin list still carries it.
	all, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, f := range all {
		if f.ID == created.ID {
			found = true
			if f.IsActive {
				t.Error("expected is_active false after SetActive")
			}
		}
	}
	if !found {
		t.Error("deactivated fabric missing from admin list")
	}
}

func TestFabricStoreUpdateKeepsPreviewURL(t *testing.T) {
	db := testDB(t)
	s := NewFabricStore(db)

	name := "test-update-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanFabrics(t, db, name) })

	created, err := s.Create(name, "original", "original prompt", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	url := "https://cdn.example.com/fabrics/test.webp"
	updated, err := s.Update(created.ID, name, "with image", "prompt", &url)
	if err != nil {
		t.Fatalf("Update (set URL): %v", err)
	}
	if updated.PreviewImageURL == nil || *updated.PreviewImageURL != url {
		t.Fatalf("preview URL not set: got %v", updated.PreviewImageURL)
	}

	// Updating without a new image keeps the previous URL.
	updated, err = s.Update(created.ID, name, "text only change", "prompt", nil)
	if err != nil {
		t.Fatalf("Update (nil URL): %v", err)
	}
	if updated.PreviewImageURL == nil || *updated.PreviewImageURL != url {
		t.Errorf("preview URL lost on text-only update: got %v", updated.PreviewImageURL)
	}
}

func TestFabricStoreSetActiveNotFound(t *testing.T) {
	db := testDB(t)
	s := NewFabricStore(db)

	if err := s.SetActive(uuid.New(), false); err == nil {
		t.Error("expected error for unknown fabric ID")
	}
}

func TestFabricStoreDeleteCascadesColors(t *testing.T) {
	db := testDB(t)
	fabrics := NewFabricStore(db)
	colors := NewColorStore(db)

	name := "test-cascade-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanFabrics(t, db, name) })

	fabric, err := fabrics.Create(name, "doomed", "prompt", nil)
	if err != nil {
		t.Fatalf("Create fabric: %v", err)
	}
	color, err := colors.Create(fabric.ID, "Crimson", "#DC143C", "https://cdn.example.com/c.webp")
	if err != nil {
		t.Fatalf("Create color: %v", err)
	}

	if err := fabrics.Delete(fabric.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	orphan, err := colors.FindByID(color.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if orphan != nil {
		t.Error("expected color removed by fabric cascade")
	}
}
