package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestFolderStoreCreateAndList(t *testing.T) {
	db := testDB(t)
	s := NewFolderStore(db)

	name := "test-folder-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanFolders(t, db, name) })

	created, err := s.Create(name, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	folders, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, f := range folders {
		if f.ID == created.ID {
			found = true
			if f.ImageCount != 0 {
				t.Errorf("image count: got %d, want 0", f.ImageCount)
			}
		}
	}
	if !found {
		t.Error("created folder missing from list")
	}
}

func TestFolderStoreRename(t *testing.T) {
	db := testDB(t)
	s := NewFolderStore(db)

	name := "test-rename-" + uuid.NewString()[:8]
	renamed := name + "-renamed"
	t.Cleanup(func() { cleanFolders(t, db, name, renamed) })

	created, err := s.Create(name, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Rename(created.ID, renamed); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found == nil || found.Name != renamed {
		t.Errorf("expected renamed folder, got %+v", found)
	}

	if err := s.Rename(uuid.New(), "nope"); err == nil {
		t.Error("expected error renaming unknown folder")
	}
}

func TestFolderStoreDeleteCascadesImages(t *testing.T) {
	db := testDB(t)
	folders := NewFolderStore(db)
	images := NewImageStore(db)

	name := "test-folder-cascade-" + uuid.NewString()[:8]
	imgName := "test-img-" + uuid.NewString()[:8]
	looseName := "test-loose-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanImages(t, db, imgName, looseName)
		cleanFolders(t, db, name)
	})

	folder, err := folders.Create(name, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create folder: %v", err)
	}

	inFolder, err := images.Create(&folder.ID, imgName, "https://cdn.example.com/a.webp", nil, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create image: %v", err)
	}
	loose, err := images.Create(nil, looseName, "https://cdn.example.com/b.webp", nil, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create loose image: %v", err)
	}

	before, err := images.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if err := folders.Delete(folder.ID); err != nil {
		t.Fatalf("Delete folder: %v", err)
	}

	// The folder's image went with it; the unfiled one survived.
	after, err := images.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before-1 {
		t.Errorf("total count: got %d, want %d", after, before-1)
	}

	gone, _ := images.FindByID(inFolder.ID)
	if gone != nil {
		t.Error("expected folder image removed by cascade")
	}
	kept, _ := images.FindByID(loose.ID)
	if kept == nil {
		t.Error("expected unfiled image to survive folder delete")
	}
}

func TestImageStoreListByFolder(t *testing.T) {
	db := testDB(t)
	folders := NewFolderStore(db)
	images := NewImageStore(db)

	name := "test-filter-" + uuid.NewString()[:8]
	imgName := "test-filter-img-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanImages(t, db, imgName)
		cleanFolders(t, db, name)
	})

	folder, err := folders.Create(name, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create folder: %v", err)
	}
	created, err := images.Create(&folder.ID, imgName, "https://cdn.example.com/f.webp", nil, "tester@fabricai.local")
	if err != nil {
		t.Fatalf("Create image: %v", err)
	}

	filtered, err := images.List(&folder.ID)
	if err != nil {
		t.Fatalf("List (folder): %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != created.ID {
		t.Errorf("filtered list: got %d images", len(filtered))
	}

	all, err := images.List(nil)
	if err != nil {
		t.Fatalf("List (all): %v", err)
	}
	found := false
	for _, img := range all {
		if img.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("image missing from unfiltered list")
	}
}
