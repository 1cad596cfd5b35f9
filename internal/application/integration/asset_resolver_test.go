package integration

import (
	"context"
	"testing"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMediaPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/m/h/mh01-black_main_1.jpg", "/m/h/mh01-black_main.jpg"},
		{"m/h/mh01.jpg", "/m/h/mh01.jpg"},
		{"//m/h/mh01.jpg", "/m/h/mh01.jpg"},
		{"/m/h/mh01_1x.jpg", "/m/h/mh01_1x.jpg"},
		{"/m_1/h/mh01.jpg", "/m_1/h/mh01.jpg"},
		{"/m/h/mh01_1", "/m/h/mh01"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMediaPath(tt.in))
		})
	}
}

func TestAssetResolver_Materialize(t *testing.T) {
	ctx := context.Background()

	t.Run("downloads and registers a permanent file", func(t *testing.T) {
		env := newTestEnv(t)
		env.source.addMedia("/m/b/mb01.jpg", "bag")

		file, err := env.engine.Assets.Materialize(ctx, "m/b/mb01_1.jpg")
		require.NoError(t, err)
		assert.Equal(t, "public://products/m/b/mb01.jpg", file.URI)
		assert.Equal(t, "mb01.jpg", file.Filename)
		assert.Equal(t, int64(3), file.Size)
		assert.True(t, file.Permanent)
		assert.Equal(t, []byte("bag"), env.assets.objects["products/m/b/mb01.jpg"])
	})

	t.Run("missing media yields no file", func(t *testing.T) {
		env := newTestEnv(t)
		file, err := env.engine.Assets.Materialize(ctx, "/m/b/none.jpg")
		assert.ErrorIs(t, err, integration.ErrSourceNotFound)
		assert.Nil(t, file)
	})

	t.Run("store failure yields no file", func(t *testing.T) {
		env := newTestEnv(t)
		env.source.addMedia("/m/b/mb01.jpg", "bag")
		env.assets.failPut = true

		_, err := env.engine.Assets.Materialize(ctx, "/m/b/mb01.jpg")
		assert.Error(t, err)
		_, err = env.repos.Files.FindByURI(ctx, "public://products/m/b/mb01.jpg")
		assert.Error(t, err)
	})

	t.Run("overwrite re-downloads into the same file", func(t *testing.T) {
		env := newTestEnv(t)
		env.source.addMedia("/m/b/mb01.jpg", "bag")

		first, err := env.engine.Assets.Materialize(ctx, "/m/b/mb01.jpg")
		require.NoError(t, err)
		second, err := env.engine.Assets.Materialize(ctx, "/m/b/mb01.jpg")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, env.source.mediaCalls)
	})

	t.Run("without overwrite a stored asset is reused", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *EngineConfig) { cfg.OverwriteAssets = false })
		env.source.addMedia("/m/b/mb01.jpg", "bag")

		first, err := env.engine.Assets.Materialize(ctx, "/m/b/mb01.jpg")
		require.NoError(t, err)
		second, err := env.engine.Assets.Materialize(ctx, "/m/b/mb01.jpg")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, env.source.mediaCalls)
	})
}

func TestAssetResolver_RegisterFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	file, err := env.engine.Assets.RegisterFile(ctx, "/m/h/gallery_1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "public://products/m/h/gallery.jpg", file.URI)
	assert.False(t, file.Permanent)
	assert.Zero(t, env.source.mediaCalls)

	again, err := env.engine.Assets.RegisterFile(ctx, "m/h/gallery.jpg")
	require.NoError(t, err)
	assert.Equal(t, file.ID, again.ID)
}
