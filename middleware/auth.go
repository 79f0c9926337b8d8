package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pos/database"
	"pos/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TokenCookie = "token"

// Blacklist reports whether a token was revoked by logout.
type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// Accounts looks up the user a token was issued to.
type Accounts interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func (t Tokens) Issue(user models.User) (string, time.Time, error) {
	exp := time.Now().Add(t.TTL)
	claims := Claims{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenFromRequest reads a bearer token, falling back to the login cookie.
func TokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	if header != "" {
		return header
	}
	cookie, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func unauthorized(c *gin.Context, msg string) {
	if !isAPI(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// AuthMiddleware authenticates API calls and pages. Pages redirect to
// the login form instead of answering 401. The user must still exist and
// be active; name and role come from the stored account, so changes an
// admin makes apply to tokens already issued.
func AuthMiddleware(tokens Tokens, blacklist Blacklist, accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			unauthorized(c, "Token required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		revoked, err := blacklist.Contains(ctx, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check token"})
			return
		}
		if revoked {
			unauthorized(c, "Token has been blacklisted")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		user, err := accounts.FindByID(ctx, userID)
		if errors.Is(err, database.ErrNotFound) {
			unauthorized(c, "Account not found")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			return
		}
		if !user.IsActive {
			unauthorized(c, "Account is inactive")
			return
		}
		claims.Name = user.Name
		claims.Role = user.Role

		c.Set("token", tokenString)
		c.Set("claims", claims)
		c.Set("userId", claims.UserID)
		c.Set("userName", user.Name)
		c.Set("role", user.Role)
		c.Next()
	}
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: " + strings.Join(roles, ", ") + " only"})
	}
}

// ClaimsFrom returns the claims set by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
