package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SessionKeeper/internal/cli/session"
	"SessionKeeper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServer имитирует /api/user/login, /api/user/register и /api/user/info.
// Пароль у всех пользователей "secret".
func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/login", "/api/user/register":
			var c struct {
				Login    string `json:"login"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&c)
			switch {
			case c.Login == "taken" && r.URL.Path == "/api/user/register":
				w.WriteHeader(http.StatusConflict)
			case c.Login == "boom":
				http.Error(w, "boom", http.StatusInternalServerError)
			case c.Password != "secret":
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-" + c.Login})
				w.WriteHeader(http.StatusOK)
			}
		case "/api/user/info":
			c, err := r.Cookie("auth_token")
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			login := strings.TrimPrefix(c.Value, "tok-")
			_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"username":"` + login + `","nickname":"` + login + `"}}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// --- login tests ---
func TestLogin_Run_SuccessAndErrors(t *testing.T) {
	dir := withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}
	cmd := loginCmd{}

	require.NoError(t, cmd.Run(ctx, cfg, []string{"--remember", "alice", "secret"}))

	// снимок лежит в %CONFIG%/SessionKeeper/big-user.json
	_, err := os.Stat(filepath.Join(dir, "SessionKeeper", "big-user.json"))
	require.NoError(t, err)
	snap := loadSnapshot(t, cfg)
	assert.Equal(t, "tok-alice", snap.Token)
	assert.Equal(t, "alice", snap.User["username"])
	assert.True(t, snap.RememberCheckbox)
	assert.Equal(t, "alice", snap.RememberedUsername)
	assert.Equal(t, "secret", snap.RememberedPassword)

	// 401 Unauthorized: сохранённая сессия не меняется
	err = cmd.Run(ctx, cfg, []string{"alice", "bad"})
	assert.Error(t, err)
	assert.Equal(t, "tok-alice", loadSnapshot(t, cfg).Token)

	// server 500 → ошибка
	assert.Error(t, cmd.Run(ctx, cfg, []string{"boom", "secret"}))

	// лишние аргументы и неизвестный флаг → ErrUsage
	assert.ErrorIs(t, cmd.Run(ctx, cfg, []string{"a", "b", "c"}), ErrUsage)
	assert.ErrorIs(t, cmd.Run(ctx, cfg, []string{"--nope", "a"}), ErrUsage)

	// недоступный сервер
	assert.Error(t, cmd.Run(ctx, &config.Config{ServerURL: "http://127.0.0.1:1"}, []string{"alice", "secret"}))
}

func TestLogin_Run_UsesRememberedCredentials(t *testing.T) {
	withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}
	cmd := loginCmd{}

	require.NoError(t, cmd.Run(ctx, cfg, []string{"--remember", "alice", "secret"}))
	require.NoError(t, (logoutCmd{}).Run(ctx, cfg, nil))

	// без пароля: берётся запомненный
	require.NoError(t, cmd.Run(ctx, cfg, []string{"alice"}))
	assert.Equal(t, "tok-alice", loadSnapshot(t, cfg).Token)

	// совсем без аргументов: запомненный логин тоже
	require.NoError(t, (logoutCmd{}).Run(ctx, cfg, nil))
	require.NoError(t, cmd.Run(ctx, cfg, nil))
	snap := loadSnapshot(t, cfg)
	assert.Equal(t, "tok-alice", snap.Token)
	assert.True(t, snap.RememberCheckbox, "checkbox keeps its stored value when flag omitted")

	// --remember=false очищает запомненные данные
	require.NoError(t, cmd.Run(ctx, cfg, []string{"--remember=false", "alice", "secret"}))
	snap = loadSnapshot(t, cfg)
	assert.False(t, snap.RememberCheckbox)
	assert.Equal(t, "", snap.RememberedUsername)
	assert.Equal(t, "", snap.RememberedPassword)

	// теперь без аргументов нечего подставить
	assert.ErrorIs(t, cmd.Run(ctx, cfg, nil), ErrUsage)
}

func TestLogin_Run_PromptsForPassword(t *testing.T) {
	withTempConfig(t)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}

	// не терминал — спросить негде
	stubPassword(t, "secret", false)
	assert.ErrorIs(t, (loginCmd{}).Run(ctx, cfg, []string{"bob"}), errNoTerminal)

	stubPassword(t, "secret", true)
	out := withStdoutCapture(t, func() {
		require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"bob"}))
	})
	assert.Contains(t, out, "Password:")
	assert.Contains(t, out, "Logged in successfully")
	assert.Equal(t, "tok-bob", loadSnapshot(t, cfg).Token)
}

// --- register tests ---
func TestRegister_Run_SuccessAndErrors(t *testing.T) {
	withTempConfig(t)
	stubPassword(t, "secret", true)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}
	cmd := registerCmd{}

	require.NoError(t, cmd.Run(ctx, cfg, []string{"bob", "secret"}))
	snap := loadSnapshot(t, cfg)
	assert.Equal(t, "tok-bob", snap.Token)
	assert.Equal(t, "bob", snap.User["username"])
	// регистрация не трогает "запомнить меня"
	assert.False(t, snap.RememberCheckbox)

	// пароль из терминала
	require.NoError(t, cmd.Run(ctx, cfg, []string{"carol"}))
	assert.Equal(t, "tok-carol", loadSnapshot(t, cfg).Token)

	// 409 Conflict
	assert.Error(t, cmd.Run(ctx, cfg, []string{"taken", "secret"}))
	// 500
	assert.Error(t, cmd.Run(ctx, cfg, []string{"boom", "secret"}))

	// аргументы
	assert.ErrorIs(t, cmd.Run(ctx, cfg, nil), ErrUsage)
	assert.ErrorIs(t, cmd.Run(ctx, cfg, []string{"a", "b", "c"}), ErrUsage)
}

// --- logout / forget / remember / whoami ---
func TestLogoutForgetRemember(t *testing.T) {
	withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}

	require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"--remember", "alice", "secret"}))

	require.NoError(t, (logoutCmd{}).Run(ctx, cfg, nil))
	snap := loadSnapshot(t, cfg)
	assert.Equal(t, "", snap.Token)
	assert.Equal(t, session.Profile{}, snap.User)
	assert.True(t, snap.RememberCheckbox)
	assert.Equal(t, "alice", snap.RememberedUsername)
	assert.ErrorIs(t, (logoutCmd{}).Run(ctx, cfg, []string{"x"}), ErrUsage)

	out := withStdoutCapture(t, func() {
		require.NoError(t, (rememberCmd{}).Run(ctx, cfg, nil))
	})
	assert.Contains(t, out, "Remember me: on")
	assert.Contains(t, out, "Remembered login: alice")

	require.NoError(t, (rememberCmd{}).Run(ctx, cfg, []string{"off"}))
	snap = loadSnapshot(t, cfg)
	assert.False(t, snap.RememberCheckbox)
	assert.Equal(t, "alice", snap.RememberedUsername, "checkbox and credentials are independent")
	assert.ErrorIs(t, (rememberCmd{}).Run(ctx, cfg, []string{"maybe"}), ErrUsage)

	require.NoError(t, (forgetCmd{}).Run(ctx, cfg, nil))
	snap = loadSnapshot(t, cfg)
	assert.Equal(t, "", snap.RememberedUsername)
	assert.Equal(t, "", snap.RememberedPassword)
}

func TestWhoami_Run(t *testing.T) {
	withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}

	assert.ErrorIs(t, (whoamiCmd{}).Run(ctx, cfg, nil), errNotLoggedIn)

	require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"dave", "secret"}))
	out := withStdoutCapture(t, func() {
		require.NoError(t, (whoamiCmd{}).Run(ctx, cfg, []string{"--refresh"}))
	})
	assert.Equal(t, "nickname: dave\nusername: dave\n", out)
	assert.ErrorIs(t, (whoamiCmd{}).Run(ctx, cfg, []string{"x"}), ErrUsage)
}

func TestLogin_Run_SQLiteBackend(t *testing.T) {
	dir := withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{
		ServerURL:      ts.URL,
		SessionBackend: config.BackendSQLite,
		ClientDBPath:   filepath.Join(dir, "client.sqlite"),
	}

	require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"erin", "secret"}))
	_, err := os.Stat(cfg.ClientDBPath)
	require.NoError(t, err)

	out := withStdoutCapture(t, func() {
		require.NoError(t, (whoamiCmd{}).Run(ctx, cfg, nil))
	})
	assert.Contains(t, out, "username: erin")
}

func TestForget_All_RemovesStoredSession(t *testing.T) {
	dir := withTempConfig(t)
	stubPassword(t, "", false)
	ts := authServer(t)
	ctx := context.Background()
	cfg := &config.Config{ServerURL: ts.URL}

	require.NoError(t, (loginCmd{}).Run(ctx, cfg, []string{"--remember", "alice", "secret"}))
	file := filepath.Join(dir, "SessionKeeper", "big-user.json")
	_, err := os.Stat(file)
	require.NoError(t, err)

	assert.ErrorIs(t, (forgetCmd{}).Run(ctx, cfg, []string{"--everything"}), ErrUsage)
	require.NoError(t, (forgetCmd{}).Run(ctx, cfg, []string{"--all"}))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err), "snapshot file must be removed")

	// следующий запуск начинает с нуля
	snap := loadSnapshot(t, cfg)
	assert.Equal(t, "", snap.Token)
	assert.False(t, snap.RememberCheckbox)
	assert.Equal(t, "", snap.RememberedUsername)
}
