package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore implementation
// adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	user := schema.Object(map[string]schema.Schema{
		"id":   schema.String().Require(),
		"tags": schema.Array(schema.String()),
	}).WithRequiredKeys("tags").Require()

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, user), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, schema.KindObject, loaded.Type)
		assert.True(t, loaded.Required)
		assert.True(t, loaded.Properties["id"].Required)
		require.NotNil(t, loaded.Properties["tags"].Items)
		assert.Equal(t, schema.KindString, loaded.Properties["tags"].Items.Type)
		assert.Equal(t, []string{"tags"}, loaded.RequiredKeys)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Properties["injected"] = schema.Number()

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.NotContains(t, again.Properties, "injected")
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, schema.String()))
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, schema.KindString, loaded.Type)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		err := store.Save(ctx, "", user)
		assert.ErrorIs(t, err, domain.ErrInvalidSchemaName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, user))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, user))
		require.NoError(t, store.Save(ctx, id2, schema.Number()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})

	t.Run("List Includes Temp-Like Names", func(t *testing.T) {
		id := "tmp-" + name
		require.NoError(t, store.Save(ctx, id, schema.String()))
		defer func() { _ = store.Delete(ctx, id) }()

		_, err := store.Load(ctx, id)
		require.NoError(t, err)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id)
	})
}
