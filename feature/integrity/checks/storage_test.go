package checks

import (
	"context"
	"testing"

	"section-mirror/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory").Return(true, nil)

		report, err := CheckStorage(ctx, client, "inventory")
		require.NoError(t, err)
		assert.Equal(t, &StorageReport{Bucket: "inventory", Exists: true}, report)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory").Return(false, nil)

		report, err := CheckStorage(ctx, client, "inventory")
		require.NoError(t, err)
		assert.False(t, report.Exists)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory").Return(false, assert.AnError)

		_, err := CheckStorage(ctx, client, "inventory")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		_, err := CheckStorage(ctx, nil, "inventory")
		assert.Error(t, err)
	})
}
