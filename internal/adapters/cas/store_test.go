package cas_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/cas"
	"go.trai.ch/ffbuild/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), ".ffbuild", "state.json")

	store, err := cas.NewStore(storePath)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	info := domain.BuildInfo{
		TaskName:     "calc_Fama_French_1993",
		Dependencies: map[string]string{"src/misc_tools.py": "abc"},
		Timestamp:    time.Now(),
	}

	if err := store.Put(info); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("calc_Fama_French_1993")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.TaskName != info.TaskName {
		t.Errorf("expected TaskName %q, got %q", info.TaskName, got.TaskName)
	}

	missing, err := store.Get("unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Persistence(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")

	store1, err := cas.NewStore(storePath)
	require.NoError(t, err)
	require.NoError(t, store1.Put(domain.BuildInfo{
		TaskName:     "pull",
		Dependencies: map[string]string{"src/config.py": "xyz"},
	}))

	// A second instance reads what the first one wrote.
	store2, err := cas.NewStore(storePath)
	require.NoError(t, err)

	got, err := store2.Get("pull")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "xyz", got.Dependencies["src/config.py"])
}

func TestStore_Delete(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")

	store, err := cas.NewStore(storePath)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildInfo{TaskName: "pull"}))
	require.NoError(t, store.Put(domain.BuildInfo{TaskName: "calc"}))

	require.NoError(t, store.Delete("pull"))
	require.NoError(t, store.Delete("never-ran"))

	reopened, err := cas.NewStore(storePath)
	require.NoError(t, err)

	got, err := reopened.Get("pull")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = reopened.Get("calc")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStore_OmitZero(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")

	store, err := cas.NewStore(storePath)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildInfo{TaskName: "task_zero"}))

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(storePath)
	require.NoError(t, err)

	jsonStr := string(content)
	assert.False(t, strings.Contains(jsonStr, "dependencies"), "zero dependencies should be omitted")
	assert.False(t, strings.Contains(jsonStr, "timestamp"), "zero timestamp should be omitted")
	assert.True(t, strings.Contains(jsonStr, "task_name"))
}

func TestStore_CorruptFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), 0o600))

	_, err := cas.NewStore(storePath)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStoreUnmarshalFailed)
}

func TestStore_EmptyFile(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(storePath, nil, 0o600))

	store, err := cas.NewStore(storePath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(storePath), store.Path())
}

func TestOpener_Open(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "nested", "state.json")

	store, err := cas.NewOpener().Open(storePath)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildInfo{TaskName: "convert_notebooks_to_scripts"}))
	assert.FileExists(t, storePath)
}
