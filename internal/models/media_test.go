package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The media table uses soft delete, so the key uniqueness constraint must
// be scoped to live rows. A plain unique index would keep a deleted row's
// key reserved forever and make any deleted filename unusable in its
// folder: the insert-time collision check skips soft-deleted rows, so the
// index has to skip them too.
func TestMediaKeyIndexScopedToLiveRows(t *testing.T) {
	field, ok := reflect.TypeOf(Media{}).FieldByName("Key")
	require.True(t, ok)

	tag := field.Tag.Get("gorm")
	assert.Contains(t, tag, "uniqueIndex")
	assert.Contains(t, tag, "where:deleted_at IS NULL")
}
