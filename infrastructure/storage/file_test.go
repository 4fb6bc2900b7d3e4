package storage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s := NewFileStorage(fs, "/layouts")

	_, err := s.Load(ctx, "main")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, s.Save(ctx, "main", []byte(`{"title":"A"}`)))
	require.NoError(t, s.Save(ctx, "main", []byte(`{"title":"B"}`)))

	data, err := s.Load(ctx, "main")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"B"}`, string(data))

	exists, err := afero.Exists(fs, "/layouts/bWFpbg.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Delete(ctx, "main"))
	require.NoError(t, s.Delete(ctx, "main"))

	_, err = s.Load(ctx, "main")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestFileStorage_ChaveSanitizada(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s := NewFileStorage(fs, "/layouts")

	require.NoError(t, s.Save(ctx, "../../etc/passwd", []byte("{}")))

	files, err := afero.ReadDir(fs, "/layouts")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.NotContains(t, files[0].Name(), "/")

	exists, err := afero.Exists(fs, "/etc/passwd")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStorage_ChavesParecidasNaoColidem(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(afero.NewMemMapFs(), "/layouts")

	keys := []string{"sales.q1", "sales q1", "sales_q1", "vendas/2024", "Vendas-2024"}
	for _, key := range keys {
		require.NoError(t, s.Save(ctx, key, []byte(`{"title":"`+key+`"}`)))
	}

	for _, key := range keys {
		data, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"`+key+`"}`, string(data))
	}

	require.NoError(t, s.Delete(ctx, "sales.q1"))
	_, err := s.Load(ctx, "sales.q1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	data, err := s.Load(ctx, "sales_q1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"sales_q1"}`, string(data))
}
