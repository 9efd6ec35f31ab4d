package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	. "github.com/groupstudy/server/apps/api/echo"
)

func TestIssueToken(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "valid email mints a cookie",
			body:     []byte(`{"email": "prof@x.com"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true}`),
		},
		{
			name:     "missing email",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "this field is required"}`),
		},
		{
			name:     "malformed email",
			body:     []byte(`{"email": "nope"}`),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/jwt", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusOK {
				return
			}
			var cookie *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == "token" {
					cookie = c
				}
			}
			if cookie == nil {
				t.Fatal("session cookie not set")
			}
			if !cookie.HttpOnly {
				t.Error("session cookie must be HTTP-only")
			}
			if cookie.Value == "" {
				t.Error("session cookie is empty")
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(GetIdentityClaims("prof@x.com"))
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (interface{}, error) {
		return SigningKey(), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parsing token: %v", err)
	}
	if claims.Email != "prof@x.com" {
		t.Errorf("email = %q; want %q", claims.Email, "prof@x.com")
	}
	expiry := time.Unix(claims.ExpiresAt, 0)
	if d := time.Until(expiry); d < 23*time.Hour || d > 25*time.Hour {
		t.Errorf("expiry delta = %v; want ~24h", d)
	}
}

func TestAccessGuard(t *testing.T) {
	env := setup(t)

	a := createAssignment(t, env.assignmentRepo, "Algebra", "Linear algebra basics", 50, "easy", "prof@x.com")
	createSubmission(t, env.submissionRepo, a.ID.Hex(), "prof@x.com")

	otherKey := []byte("not-the-signing-key")
	badToken := signWith(t, "prof@x.com", otherKey, time.Now().Add(time.Hour))
	expiredToken := signWith(t, "prof@x.com", SigningKey(), time.Now().Add(-time.Hour))

	tests := []httpTest{
		{
			name:     "no cookie",
			path:     "/submissions/pending/prof@x.com",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "cookie signed with a different secret",
			path:     "/submissions/pending/prof@x.com",
			token:    badToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired cookie",
			path:     "/submissions/pending/prof@x.com",
			token:    expiredToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "valid cookie, mismatched path email",
			path:     "/submissions/pending/intruder@x.com",
			token:    getToken(t, "prof@x.com"),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"error": "forbidden access"}`),
		},
		{
			name:     "valid matching request",
			path:     "/submissions/pending/prof@x.com",
			token:    getToken(t, "prof@x.com"),
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func signWith(t *testing.T, email string, key []byte, expiry time.Time) string {
	claims := GetIdentityClaims(email)
	claims.ExpiresAt = expiry.Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signWith(): %v", err)
	}
	return ss
}
