package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskpad/internal/model"
)

const categoriesFileName = "categories.json"

// CategoryIndex is the user's tag set, persisted to a local JSON file (the
// key-value fallback store; there is no backend collaborator for categories).
// Deleting a category never cascades to items: their category field becomes a
// dangling reference and they render as uncategorized.
type CategoryIndex struct {
	path       string
	categories []model.Category
}

// LoadCategories reads dir/categories.json, seeding the default set on first
// use.
func LoadCategories(dir string) (*CategoryIndex, error) {
	idx := &CategoryIndex{path: filepath.Join(dir, categoriesFileName)}

	b, err := os.ReadFile(idx.path)
	if errors.Is(err, os.ErrNotExist) {
		idx.categories = defaultCategories()
		if err := idx.save(); err != nil {
			return nil, err
		}
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &idx.categories); err != nil {
		return nil, err
	}
	if idx.categories == nil {
		idx.categories = []model.Category{}
	}
	return idx, nil
}

func defaultCategories() []model.Category {
	return []model.Category{
		{ID: "personal", Name: "Personal", Icon: "user"},
		{ID: "work", Name: "Work", Icon: "briefcase"},
	}
}

func (c *CategoryIndex) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c.categories, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o644)
}

// Categories returns the tag set in creation order. Shared slice; do not
// mutate.
func (c *CategoryIndex) Categories() []model.Category { return c.categories }

func (c *CategoryIndex) ByID(id string) (model.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// Add rejects duplicate names case-insensitively without mutating state.
func (c *CategoryIndex) Add(name, icon string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, errValidation("category name must not be empty")
	}
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return model.Category{}, errValidation("a category with this name already exists")
		}
	}
	if !model.ValidCategoryIcon(icon) {
		icon = model.DefaultCategoryIcon()
	}

	cat := model.Category{ID: NewCategoryID(), Name: name, Icon: icon}
	c.categories = append(c.categories, cat)
	if err := c.save(); err != nil {
		return model.Category{}, err
	}
	return cat, nil
}

func (c *CategoryIndex) UpdateIcon(id, icon string) error {
	if !model.ValidCategoryIcon(icon) {
		return errValidation("unknown icon: %s", icon)
	}
	for i := range c.categories {
		if c.categories[i].ID == id {
			c.categories[i].Icon = icon
			return c.save()
		}
	}
	return errNotFound("category", id)
}

// Remove deletes the category only; items keep their (now dangling) reference.
func (c *CategoryIndex) Remove(id string) error {
	out := c.categories[:0]
	found := false
	for _, cat := range c.categories {
		if cat.ID == id {
			found = true
			continue
		}
		out = append(out, cat)
	}
	c.categories = out
	if !found {
		return errNotFound("category", id)
	}
	return c.save()
}

// CountAll counts every item regardless of category, dangling or not.
func (c *CategoryIndex) CountAll(tasks []model.Task, notes []model.Note) int {
	return len(tasks) + len(notes)
}

// CountFor scans the current collections; O(items) per call, which is fine at
// user scale.
func (c *CategoryIndex) CountFor(categoryID string, tasks []model.Task, notes []model.Note) int {
	n := 0
	for _, t := range tasks {
		if t.CategoryID == categoryID {
			n++
		}
	}
	for _, nt := range notes {
		if nt.CategoryID == categoryID {
			n++
		}
	}
	return n
}
