package security

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Same password produces different hashes due to salt
	hash2, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: password, hash: hash, want: true},
		{name: "incorrect password", password: "wrongPassword", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "garbage hash", password: password, hash: "not-a-hash", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, tt.hash))
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, session, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, int64(42), session.UserID)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, parsed.ID)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.False(t, parsed.IsExpired())
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(1)
	require.NoError(t, err)
	other, _, err := issuer.Issue(2)
	require.NoError(t, err)

	// Payload of another user under the first token's signature.
	parts := strings.Split(token, ".")
	parts[1] = strings.Split(other, ".")[1]
	tampered := strings.Join(parts, ".")

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	oldToken, _, err := expired.Issue(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{name: "wrong secret", issuer: NewTokenIssuer("other", time.Hour), token: token},
		{name: "expired", issuer: issuer, token: oldToken},
		{name: "malformed", issuer: issuer, token: "abc.def"},
		{name: "empty", issuer: issuer, token: ""},
		{name: "tampered", issuer: issuer, token: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.issuer.Parse(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "clients are limited independently")
	assert.Equal(t, 2, rl.Len())

	rl.idle = 0
	time.Sleep(time.Millisecond)
	rl.Cleanup()
	assert.Equal(t, 0, rl.Len())
}

func TestGetClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.254", "172.16.0.0/12"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "192.168.1.5:4321", want: "192.168.1.5"},
		{name: "untrusted peer ignores forwarded", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, remote: "1.1.1.1:80", want: "1.1.1.1"},
		{name: "untrusted peer ignores real ip", headers: map[string]string{"X-Real-IP": "10.0.0.3"}, remote: "1.1.1.1:80", want: "1.1.1.1"},
		{name: "trusted peer", headers: map[string]string{"X-Forwarded-For": "203.0.113.9"}, remote: "10.0.0.254:80", want: "203.0.113.9"},
		{name: "spoofed chain through proxies", headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.9, 172.16.4.4"}, remote: "10.0.0.254:80", want: "203.0.113.9"},
		{name: "trusted peer real ip", headers: map[string]string{"X-Real-IP": "203.0.113.7"}, remote: "172.20.0.2:80", want: "203.0.113.7"},
		{name: "trusted peer without headers", remote: "172.20.0.2:80", want: "172.20.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r, proxies))
		})
	}
}

func TestRateLimiterIgnoresSpoofedForwarding(t *testing.T) {
	rl := NewRateLimiter(3)

	allowed := 0
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.RemoteAddr = "198.51.100.7:5000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.%d.%d", i/250, i%250))
		if rl.AllowRequest(r) {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiterBehindTrustedProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.254"})
	require.NoError(t, err)
	rl := NewRateLimiter(1, proxies...)

	request := func(client string) *http.Request {
		r := httptest.NewRequest("POST", "/api/login", nil)
		r.RemoteAddr = "10.0.0.254:443"
		r.Header.Set("X-Forwarded-For", client)
		return r
	}
	assert.True(t, rl.AllowRequest(request("203.0.113.1")))
	assert.False(t, rl.AllowRequest(request("203.0.113.1")))
	assert.True(t, rl.AllowRequest(request("203.0.113.2")))
}

func TestParseTrustedProxies(t *testing.T) {
	nets, err := ParseTrustedProxies([]string{"10.0.0.1", " ", "fd00::/8", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.True(t, nets[0].Contains(net.ParseIP("10.0.0.1")))
	assert.False(t, nets[0].Contains(net.ParseIP("10.0.0.2")))
	assert.True(t, nets[1].Contains(net.ParseIP("fd12::1")))
	assert.True(t, nets[2].Contains(net.ParseIP("::1")))

	for _, bad := range []string{"proxy.local", "10.0.0.0/33"} {
		_, err := ParseTrustedProxies([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestSessionCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	c := CreateSessionCookie(r, "tok", time.Now().Add(time.Hour))
	assert.Equal(t, SessionCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)

	r.Header.Set("X-Forwarded-Proto", "https")
	d := CreateDeleteCookie(r)
	assert.True(t, d.Secure)
	assert.Equal(t, -1, d.MaxAge)
}
