package commands

import (
	"context"
	"runtime"
	"testing"

	"SessionKeeper/internal/cli/repo/fs"
	"SessionKeeper/internal/cli/session"
	"SessionKeeper/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы снимок сессии создавался в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// loadSnapshot читает то, что команды сохранили на диск.
func loadSnapshot(t *testing.T, cfg *config.Config) session.Snapshot {
	t.Helper()
	st := session.New(nil)
	p := session.NewPersister(fs.StateFSStore{Dir: cfg.SessionDir}, cfg.SessionKey, nil)
	if err := p.Load(context.Background(), st); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return st.Snapshot()
}

// stubPassword подменяет ввод пароля из терминала.
func stubPassword(t *testing.T, pass string, tty bool) {
	t.Helper()
	oldRead, oldTTY := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return []byte(pass), nil }
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTTY })
}
