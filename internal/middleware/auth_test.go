package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindboard/internal/auth"
	"mindboard/internal/db/dbtest"
	"mindboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.Open(t)
	users := services.NewUserService(gdb)
	_, err := users.Register(context.Background(), services.RegisterInput{
		UserNum: "1001", Nick: "sunny", Age: 30, Gender: "MALE", Job: "WORKER",
	})
	require.NoError(t, err)
	tokens := auth.NewIssuer(auth.Config{Secret: "test", TTL: time.Hour})

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("session"))))
	r.Use(LoadUser(tokens, users))
	r.GET("/login", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(SessionUserKey, c.Query("as"))
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, CurrentUserNum(c)) })
	r.GET("/private", AuthRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, tokens
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoadUserFromBearer(t *testing.T) {
	r, tokens := newEngine(t)
	token, err := tokens.Issue("1001")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, "1001", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Empty(t, serve(r, req).Body.String())
}

func TestLoadUserFromSession(t *testing.T) {
	r, _ := newEngine(t)

	login := serve(r, httptest.NewRequest(http.MethodGet, "/login?as=1001", nil))
	require.Equal(t, http.StatusNoContent, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	assert.Equal(t, "1001", serve(r, req).Body.String())
}

func TestUnknownUserStaysAnonymous(t *testing.T) {
	r, tokens := newEngine(t)
	token, err := tokens.Issue("9999")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
