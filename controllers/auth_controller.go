package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pos/database"
	"pos/middleware"
	"pos/models"
	"pos/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	errBadCredentials = errors.New("invalid email or password")
	errInactive       = errors.New("account is inactive")
)

// LoginFields are the login form fields that must not be blank.
var LoginFields = []string{"email", "password"}

type AuthController struct {
	users     UserStore
	blacklist TokenStore
	sessions  *CartSessions
	tokens    middleware.Tokens
	logger    *zap.Logger
}

func NewAuthController(users UserStore, blacklist TokenStore, sessions *CartSessions, tokens middleware.Tokens, logger *zap.Logger) *AuthController {
	return &AuthController{users: users, blacklist: blacklist, sessions: sessions, tokens: tokens, logger: logger}
}

func (a *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleTeller
	}
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	err = a.users.Create(ctx, &user)
	if errors.Is(err, database.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		a.logger.Error("register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account created successfully",
		"user":    user,
	})
}

func (a *AuthController) authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := a.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, database.ErrNotFound) {
		return models.User{}, errBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, errBadCredentials
	}
	if !user.IsActive {
		return models.User{}, errInactive
	}
	return user, nil
}

func (a *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	user, err := a.authenticate(ctx, input.Email, input.Password)
	switch {
	case errors.Is(err, errBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	case errors.Is(err, errInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		return
	case err != nil:
		a.logger.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	token, exp, err := a.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID.Hex(),
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"token":     token,
			"expiresAt": exp,
		},
	})
}

func (a *AuthController) revoke(c *gin.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return errors.New("missing claims")
	}
	exp := time.Now().Add(a.tokens.TTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()
	return a.blacklist.Add(ctx, c.GetString("token"), exp)
}

func (a *AuthController) Logout(c *gin.Context) {
	endSession(c, a.sessions)
	if err := a.revoke(c); err != nil {
		a.logger.Error("logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to blacklist token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

type loginPage struct {
	Email      string
	Message    string
	Validation validation.Result
}

func (a *AuthController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginPage{Validation: validation.FromContext(c)})
}

// LoginFormInvalid renders the login form when a required field is blank.
func (a *AuthController) LoginFormInvalid(c *gin.Context) {
	c.HTML(http.StatusBadRequest, "login.html", loginPage{
		Email:      c.PostForm("email"),
		Message:    validation.Message,
		Validation: validation.FromContext(c),
	})
}

func (a *AuthController) LoginForm(c *gin.Context) {
	email := c.PostForm("email")

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	user, err := a.authenticate(ctx, email, c.PostForm("password"))
	if err != nil {
		status, msg := http.StatusUnauthorized, "Invalid email or password"
		switch {
		case errors.Is(err, errInactive):
			status, msg = http.StatusForbidden, "Account is inactive"
		case !errors.Is(err, errBadCredentials):
			a.logger.Error("login form", zap.Error(err))
			status, msg = http.StatusInternalServerError, "Failed to login"
		}
		c.HTML(status, "login.html", loginPage{Email: email, Message: msg, Validation: validation.FromContext(c)})
		return
	}

	token, _, err := a.tokens.Issue(user)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", loginPage{Email: email, Message: "Failed to login", Validation: validation.FromContext(c)})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(a.tokens.TTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/pos")
}

// LogoutForm ends the teller's cart session with the login so the next
// teller on the terminal starts from an empty cart.
func (a *AuthController) LogoutForm(c *gin.Context) {
	endSession(c, a.sessions)
	if err := a.revoke(c); err != nil {
		a.logger.Error("logout form", zap.Error(err))
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}
