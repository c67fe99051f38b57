package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reqboard/domain/config"
	pkgerrors "reqboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.json")
	return NewStore(path, config.DefaultDomainConfig(), zap.NewNop())
}

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	store := newTestStore(t)
	state := populatedState(t)

	require.NoError(t, store.Save(context.Background(), state))
	assert.True(t, store.Exists())

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, state.Board.RequirementIDs(), loaded.Board.RequirementIDs())
	assert.Equal(t, state.Board.Links(), loaded.Board.Links())
	assert.Equal(t, state.Layers.Names(), loaded.Layers.Names())
	assert.Equal(t, state.CurrentUser(), loaded.CurrentUser())
	assert.Equal(t, state.Log.HistoryLen(), loaded.Log.HistoryLen())
}

func TestStore_SaveWritesWellFormedJSON(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), populatedState(t)))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{
		"requirements", "links", "groups", "text_boxes", "layers",
		"current_layer", "comments", "reviews", "history", "current_user",
		"next_id", "next_group_id", "next_text_id", "id_prefix", "zoom_factor",
	} {
		assert.Contains(t, doc, key)
	}
}

func TestStore_SaveLeavesNoTempFilesBehind(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), populatedState(t)))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestStore_LoadMissingFileIsIOError(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())

	assert.True(t, pkgerrors.IsIO(err))
}

func TestStore_LoadMalformedJSONIsIOError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	_, err := store.Load(context.Background())

	assert.True(t, pkgerrors.IsIO(err))
}

func TestStore_LoadStructurallyBrokenFileIsIOError(t *testing.T) {
	store := newTestStore(t)
	doc := `{"requirements": {"abc": {"type": "ust"}}}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(doc), 0o644))

	_, err := store.Load(context.Background())

	assert.True(t, pkgerrors.IsIO(err))
}

func TestStore_ExistsBeforeFirstSave(t *testing.T) {
	store := newTestStore(t)

	assert.False(t, store.Exists())
}
