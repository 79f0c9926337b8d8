package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos/database"
	"pos/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBlacklist map[string]bool

func (f fakeBlacklist) Contains(_ context.Context, token string) (bool, error) {
	return f[token], nil
}

type fakeAccounts map[primitive.ObjectID]models.User

func (f fakeAccounts) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	user, ok := f[id]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return user, nil
}

var (
	testTokens   = Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	testAccounts = fakeAccounts{}
)

func addAccount(role string, active bool) models.User {
	user := models.User{ID: primitive.NewObjectID(), Name: "Tess", Role: role, IsActive: active}
	testAccounts[user.ID] = user
	return user
}

func issueFor(t *testing.T, user models.User) string {
	t.Helper()
	token, exp, err := testTokens.Issue(user)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
	return token
}

func issue(t *testing.T, role string) string {
	t.Helper()
	return issueFor(t, addAccount(role, true))
}

func newEngine(blacklist Blacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.GetString("role")) }
	auth := AuthMiddleware(testTokens, blacklist, testAccounts)
	r.GET("/api/teller", auth, RequireRole(models.RoleTeller), ok)
	r.GET("/pos", auth, ok)
	return r
}

func do(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Bearer(t *testing.T) {
	token := issue(t, models.RoleTeller)
	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleTeller, w.Body.String())
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	token := issue(t, models.RoleManager)
	w := do(newEngine(fakeBlacklist{}), "/pos", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := newEngine(fakeBlacklist{})

	w := do(r, "/api/teller", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/pos", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthMiddleware_Blacklisted(t *testing.T) {
	token := issue(t, models.RoleTeller)
	w := do(newEngine(fakeBlacklist{token: true}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "blacklisted")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	other := Tokens{Secret: []byte("other"), TTL: time.Hour}
	token, _, err := other.Issue(addAccount(models.RoleTeller, true))
	require.NoError(t, err)

	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Expired(t *testing.T) {
	expired := Tokens{Secret: testTokens.Secret, TTL: -time.Minute}
	token, _, err := expired.Issue(addAccount(models.RoleTeller, true))
	require.NoError(t, err)

	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	token := issue(t, models.RoleManager)
	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_InactiveAccount(t *testing.T) {
	token := issueFor(t, addAccount(models.RoleTeller, false))
	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
}

func TestAuthMiddleware_UnknownAccount(t *testing.T) {
	token := issueFor(t, models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller})
	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RoleFromAccount(t *testing.T) {
	user := addAccount(models.RoleTeller, true)
	token := issueFor(t, user)
	user.Role = models.RoleManager
	testAccounts[user.ID] = user

	w := do(newEngine(fakeBlacklist{}), "/api/teller", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
