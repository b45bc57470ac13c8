package store

import (
	"testing"
	"time"

	"taskpad/internal/model"
)

func TestLoadCategoriesSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}

	cats := c.Categories()
	if len(cats) != 2 {
		t.Fatalf("got %d defaults, want 2", len(cats))
	}
	if cats[0].Name != "Personal" || cats[1].Name != "Work" {
		t.Fatalf("defaults: %v", cats)
	}

	// A second load reads the persisted file, not fresh defaults.
	again, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again.Categories()) != 2 {
		t.Fatalf("reload lost categories")
	}
}

func TestAddCategoryRejectsCaseInsensitiveDuplicate(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}

	before := len(c.Categories())
	// "Work" already exists as a default.
	if _, err := c.Add("work", "star"); !IsValidation(err) {
		t.Fatalf("duplicate add: got %v, want validation error", err)
	}
	if _, err := c.Add("WORK", "star"); !IsValidation(err) {
		t.Fatalf("duplicate add (upper): got %v, want validation error", err)
	}
	if len(c.Categories()) != before {
		t.Fatal("rejected add must not mutate the set")
	}
}

func TestAddCategoryPersistsAndDefaultsIcon(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}

	added, err := c.Add("  Errands  ", "not-an-icon")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.Name != "Errands" {
		t.Fatalf("name not trimmed: %q", added.Name)
	}
	if added.Icon != model.DefaultCategoryIcon() {
		t.Fatalf("unknown icon should fall back to default, got %q", added.Icon)
	}
	if added.ID == "" {
		t.Fatal("missing id")
	}

	reloaded, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.ByID(added.ID); !ok {
		t.Fatal("added category not persisted")
	}
}

func TestUpdateIconAndRemove(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	added, err := c.Add("Gym", "heart")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := c.UpdateIcon(added.ID, "star"); err != nil {
		t.Fatalf("UpdateIcon: %v", err)
	}
	got, _ := c.ByID(added.ID)
	if got.Icon != "star" {
		t.Fatalf("icon = %q, want star", got.Icon)
	}

	if err := c.Remove(added.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := c.ByID(added.ID); ok {
		t.Fatal("category still present after Remove")
	}
	if err := c.Remove(added.ID); !IsNotFound(err) {
		t.Fatalf("second Remove: got %v, want not-found", err)
	}
}

func TestRemoveCategoryLeavesDanglingItemReferences(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	added, err := c.Add("Doomed", "flag")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	tasks := []model.Task{
		{ID: "t1", Title: "a", CategoryID: added.ID, CreatedAt: time.Now()},
	}
	notes := []model.Note{
		{ID: "n1", Title: "b", Content: "c", CreatedAt: time.Now()},
	}

	if got := c.CountFor(added.ID, tasks, notes); got != 1 {
		t.Fatalf("CountFor before remove = %d, want 1", got)
	}

	if err := c.Remove(added.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// The task keeps its stale reference and counts only toward the total.
	if tasks[0].CategoryID != added.ID {
		t.Fatal("remove must not touch items")
	}
	total := c.CountAll(tasks, notes)
	if total != 2 {
		t.Fatalf("CountAll = %d, want 2", total)
	}
	for _, cat := range c.Categories() {
		if got := c.CountFor(cat.ID, tasks, notes); got != 0 {
			t.Fatalf("dangling task counted for %s", cat.Name)
		}
	}
}

func TestAddCategoryRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCategories(dir)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if _, err := c.Add("   ", "star"); !IsValidation(err) {
		t.Fatalf("empty name: got %v, want validation error", err)
	}
}
