package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestLineServer(t *testing.T, audience string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     "id-token-1",
		})
	})
	mux.HandleFunc("POST /verify", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("id_token") != "id-token-1" || r.PostForm.Get("client_id") != "channel-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lineIDToken{
			Subject: "U123", Audience: audience, Name: "Nok", Email: "nok@example.com",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testLineProvider(srv *httptest.Server) *lineProvider {
	p := NewLineProvider("channel-1", "channel-secret", "http://localhost/auth/line/callback").(*lineProvider)
	p.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	p.verifyURL = srv.URL + "/verify"
	return p
}

func TestLineProvider_AuthCodeURL(t *testing.T) {
	p := NewLineProvider("channel-1", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthCodeURL("state-xyz"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "access.line.me", u.Host)
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "channel-1", q.Get("client_id"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "line", p.Name())
}

func TestLineProvider_Exchange(t *testing.T) {
	p := testLineProvider(newTestLineServer(t, "channel-1"))

	profile, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "line", profile.Provider)
	assert.Equal(t, "U123", profile.Subject)
	assert.Equal(t, "nok@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "Nok", profile.Name)
}

func TestLineProvider_ExchangeFailures(t *testing.T) {
	t.Run("bad code", func(t *testing.T) {
		p := testLineProvider(newTestLineServer(t, "channel-1"))
		profile, err := p.Exchange(context.Background(), "bad-code")
		require.Error(t, err)
		assert.Nil(t, profile)
	})

	t.Run("token issued to another channel", func(t *testing.T) {
		p := testLineProvider(newTestLineServer(t, "channel-2"))
		profile, err := p.Exchange(context.Background(), "good-code")
		require.ErrorContains(t, err, "audience")
		assert.Nil(t, profile)
	})
}
