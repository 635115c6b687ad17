package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SessionKeeper/internal/cli/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_SendsToken_And_ParsesBody(t *testing.T) {
	// test server проверяет cookie и JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); !strings.Contains(c, "auth_token=tok123") {
			t.Errorf("Cookie header missing token, got: %q", c)
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("bad json: %v", err)
		}
		if m["x"] != float64(1) { // JSON number → float64
			t.Errorf("unexpected payload: %#v", m)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(" {\"ok\":true}\n"))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(body))
}

// PostJSON без токена — Cookie заголовок не должен устанавливаться
func TestPostJSON_NoToken_NoCookieHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := r.Header.Get("Cookie"); c != "" {
			t.Errorf("Cookie must be empty when token not provided, got: %q", c)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, _, err := PostJSON(context.Background(), ts.URL, map[string]any{"x": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostJSON_JSONMarshalError(t *testing.T) {
	// chan в payload вызовет ошибку json.Marshal
	_, _, err := PostJSON(context.Background(), "http://example.invalid", map[string]any{"c": make(chan int)}, "")
	assert.Error(t, err)
}

func TestPostJSON_NetworkError(t *testing.T) {
	_, _, err := PostJSON(context.Background(), "http://127.0.0.1:1", struct{}{}, "")
	assert.Error(t, err)
}

func TestTokenFromResponse(t *testing.T) {
	// success: auth_token вторым cookie
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: "other", Value: "x"}).String())
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: AuthCookieName, Value: "tok-abc"}).String())
	tok, err := TokenFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	// пустое значение и отсутствие cookie
	empty := &http.Response{Header: http.Header{}}
	empty.Header.Add("Set-Cookie", AuthCookieName+"=")
	_, err = TokenFromResponse(empty)
	assert.ErrorIs(t, err, ErrNoAuthCookie)

	_, err = TokenFromResponse(&http.Response{Header: http.Header{}})
	assert.ErrorIs(t, err, ErrNoAuthCookie)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "http://h:1/api/user/info", Endpoint("http://h:1/", UserInfoPath))
	assert.Equal(t, "http://h:1/api/user/info", Endpoint("http://h:1", UserInfoPath))
}

func TestUserInfoClient_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != UserInfoPath {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		c, err := r.Cookie(AuthCookieName)
		if err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"name":"alice"}}`))
	}))
	defer ts.Close()

	c := NewUserInfoClient(ts.URL, func() string { return "tok" })
	res, err := c.FetchUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "ok", res.Data.Message)
	assert.Equal(t, session.Profile{"name": "alice"}, res.Data.Data)

	// через State: профиль берётся из вложенного data
	st := session.New(c)
	require.NoError(t, st.FetchUser(context.Background()))
	assert.Equal(t, session.Profile{"name": "alice"}, st.User())
}

func TestUserInfoClient_Errors(t *testing.T) {
	status := http.StatusUnauthorized
	payload := ""
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	defer ts.Close()
	c := NewUserInfoClient(ts.URL, nil)
	ctx := context.Background()

	_, err := c.FetchUserInfo(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	status, payload = http.StatusInternalServerError, "boom"
	_, err = c.FetchUserInfo(ctx)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.Code)
	assert.Equal(t, "boom", se.Body)

	status, payload = http.StatusOK, "{not json"
	_, err = c.FetchUserInfo(ctx)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	// ошибка источника не меняет профиль в State
	st := session.New(c)
	st.SetUser(session.Profile{"name": "before"})
	assert.Error(t, st.FetchUser(ctx))
	assert.Equal(t, session.Profile{"name": "before"}, st.User())
}
