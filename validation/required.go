package validation

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	Message            = "Please fill in all required fields."
	InvalidBorderColor = "#e74c3c"
)

const resultKey = "validation"

var validate = validator.New()

// Result records which required fields were left blank.
type Result struct {
	Invalid map[string]bool
}

func (r Result) Valid() bool {
	return len(r.Invalid) == 0
}

func (r Result) IsInvalid(field string) bool {
	return r.Invalid[field]
}

// Style is the inline style marking a field, empty when it is valid.
func (r Result) Style(field string) template.CSS {
	if !r.Invalid[field] {
		return ""
	}
	return template.CSS("border-color: " + InvalidBorderColor)
}

// Validate checks that every required field has a non-blank value.
// Only presence is checked, never format or length.
func Validate(values url.Values, required ...string) Result {
	r := Result{Invalid: map[string]bool{}}
	for _, field := range required {
		value := strings.TrimSpace(values.Get(field))
		if err := validate.Var(value, "required"); err != nil {
			r.Invalid[field] = true
		}
	}
	return r
}

// Require blocks a form submission when any of fields is blank. The
// request is aborted and onInvalid renders the response; the Result is
// available to it through FromContext.
func Require(onInvalid gin.HandlerFunc, fields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid form"})
			return
		}
		result := Validate(c.Request.PostForm, fields...)
		c.Set(resultKey, result)
		if !result.Valid() {
			c.Abort()
			onInvalid(c)
			return
		}
		c.Next()
	}
}

// FromContext returns the Result stored by Require, or an empty one.
func FromContext(c *gin.Context) Result {
	if v, ok := c.Get(resultKey); ok {
		if r, ok := v.(Result); ok {
			return r
		}
	}
	return Result{Invalid: map[string]bool{}}
}
