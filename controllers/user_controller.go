package controllers

import (
	"errors"
	"net/http"

	"pos/database"
	"pos/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserController struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserController(users UserStore, logger *zap.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

func (u *UserController) List(c *gin.Context) {
	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	users, err := u.users.List(ctx)
	if err != nil {
		u.logger.Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	active := 0
	for _, user := range users {
		if user.IsActive {
			active++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Fetch success",
		"totalUsers":  len(users),
		"activeUsers": active,
		"data":        users,
	})
}

func (u *UserController) Update(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var body struct {
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Role != nil {
		if !models.ValidRole(*body.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		update["role"] = *body.Role
	}
	if body.IsActive != nil {
		update["isActive"] = *body.IsActive
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	user, err := u.users.Update(ctx, objID, update)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		u.logger.Error("update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "data": user})
}
