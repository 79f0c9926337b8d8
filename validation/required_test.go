package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	values := url.Values{
		"name":    {"  Alice "},
		"payment": {"   "},
	}

	r := Validate(values, "name", "payment", "missing")
	assert.False(t, r.Valid())
	assert.False(t, r.IsInvalid("name"))
	assert.True(t, r.IsInvalid("payment"))
	assert.True(t, r.IsInvalid("missing"))
	assert.Equal(t, "border-color: #e74c3c", string(r.Style("payment")))
	assert.Empty(t, r.Style("name"))
}

func TestValidate_NoRequiredFields(t *testing.T) {
	assert.True(t, Validate(url.Values{}).Valid())
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	onInvalid := func(c *gin.Context) {
		res := FromContext(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": Message, "invalid": res.Invalid})
	}
	r.POST("/submit", Require(onInvalid, "customer_name"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequire_BlocksThenAllows(t *testing.T) {
	r := newRouter()

	w := postForm(r, url.Values{"customer_name": {" "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), Message)
	assert.Contains(t, w.Body.String(), `"customer_name":true`)

	w = postForm(r, url.Values{"customer_name": {"Bob"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFromContext_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, FromContext(c).Valid())
}
