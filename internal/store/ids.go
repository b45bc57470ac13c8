package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newRecordID returns prefix-<uuid>. Record ids are assigned by the storage
// adapter on create, never by callers.
func newRecordID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewCategoryID returns a time-based token (cat_<unix-ms>). Categories are
// created locally, so a millisecond timestamp is collision-safe at user scale.
func NewCategoryID() string {
	return fmt.Sprintf("cat_%d", time.Now().UnixMilli())
}
