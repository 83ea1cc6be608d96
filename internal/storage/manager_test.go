package storage

import (
	"os"
	"strings"
	"testing"
)

func TestLocalStore_SaveAndGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	info, err := store.Save("budget.csv", strings.NewReader("Task,Status\nA,Done\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if info.ID == "" {
		t.Error("expected non-empty ID")
	}
	if info.Name != "budget.csv" {
		t.Errorf("expected name budget.csv, got %s", info.Name)
	}
	if info.Size != int64(len("Task,Status\nA,Done\n")) {
		t.Errorf("unexpected size %d", info.Size)
	}

	got, err := store.Get(info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != info.Name {
		t.Errorf("expected %s, got %s", info.Name, got.Name)
	}

	path, err := store.GetFilePath(info.ID)
	if err != nil {
		t.Fatalf("GetFilePath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "Task,Status\nA,Done\n" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())

	if _, err := store.Get("nope"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := store.GetFilePath("nope"); err == nil {
		t.Error("expected error for missing file path")
	}
}

func TestLocalStore_Delete(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())

	info, err := store.Save("tasks.json", strings.NewReader(`[{"task":"a"}]`))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	path, _ := store.GetFilePath(info.ID)

	if err := store.Delete(info.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(info.ID); err == nil {
		t.Error("expected metadata gone after delete")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file removed from disk")
	}

	if err := store.Delete(info.ID); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestLocalStore_ListOrderAndLimit(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())

	names := []string{"a.csv", "b.csv", "c.csv"}
	for _, n := range names {
		if _, err := store.Save(n, strings.NewReader("x")); err != nil {
			t.Fatalf("Save %s: %v", n, err)
		}
	}

	list, err := store.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 files, got %d", len(list))
	}
	// Most recent first
	if list[0].UploadedAt.Before(list[1].UploadedAt) {
		t.Error("expected descending upload time")
	}
}
