package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"SessionKeeper/internal/cli/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTempCfg перенастраивает пользовательский конфиг‑каталог в temp для изоляции тестов.
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestStateFSStore_SetGet_DefaultDir(t *testing.T) {
	dir := setTempCfg(t)
	ctx := context.Background()
	st := StateFSStore{}

	require.NoError(t, st.Set(ctx, "big-user", []byte(`{"token":"abc"}`)))

	got, err := st.Get(ctx, "big-user")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(got))

	// файл лежит в %CONFIG%/SessionKeeper
	_, err = os.Stat(filepath.Join(dir, AppDirName, "big-user.json"))
	assert.NoError(t, err)
}

func TestStateFSStore_Get_TrimsWhitespace(t *testing.T) {
	ctx := context.Background()
	st := StateFSStore{Dir: t.TempDir()}
	require.NoError(t, st.Set(ctx, "k", []byte("{}\r\n  ")))

	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestStateFSStore_MissingOrEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := StateFSStore{Dir: dir}

	// отсутствует файл
	_, err := st.Get(ctx, "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// пустой файл
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), nil, 0o600))
	_, err = st.Get(ctx, "empty")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStateFSStore_Overwrite_And_Delete(t *testing.T) {
	ctx := context.Background()
	st := StateFSStore{Dir: t.TempDir()}

	require.NoError(t, st.Set(ctx, "k", []byte("one")))
	require.NoError(t, st.Set(ctx, "k", []byte("two")))
	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, st.Delete(ctx, "k"))
	_, err = st.Get(ctx, "k")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, st.Delete(ctx, "k"))
}

func TestStateFSStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	st := StateFSStore{Dir: t.TempDir()}
	for _, k := range []string{"", "..", "a/b", "with space"} {
		assert.Error(t, st.Set(ctx, k, []byte("x")), "key %q", k)
		_, err := st.Get(ctx, k)
		assert.Error(t, err, "key %q", k)
	}
}
