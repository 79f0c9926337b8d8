package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pos/cart"
	"pos/database"
	"pos/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductController struct {
	products ProductStore
	logger   *zap.Logger
}

func NewProductController(products ProductStore, logger *zap.Logger) *ProductController {
	return &ProductController{products: products, logger: logger}
}

// parsePrice accepts a JSON number or price text such as "$2.50".
func parsePrice(raw json.RawMessage) (float64, error) {
	var price decimal.Decimal
	var text string
	var err error
	if json.Unmarshal(raw, &text) == nil {
		price, err = cart.ParsePrice(text)
	} else {
		price, err = decimal.NewFromString(string(raw))
	}
	if err != nil {
		return 0, err
	}
	if price.IsNegative() {
		return 0, errors.New("price cannot be negative")
	}
	return price.InexactFloat64(), nil
}

func validStatus(status string) bool {
	return status == models.StatusAvailable || status == models.StatusUnavailable
}

func (p *ProductController) List(c *gin.Context) {
	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	products, err := p.products.List(ctx)
	if err != nil {
		p.logger.Error("list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Fetch products success",
		"count":    len(products),
		"products": products,
	})
}

func (p *ProductController) Create(c *gin.Context) {
	var body struct {
		Name        string          `json:"name" binding:"required"`
		Description string          `json:"description"`
		Price       json.RawMessage `json:"price" binding:"required"`
		Status      string          `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and price are required"})
		return
	}
	price, err := parsePrice(body.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	if body.Status == "" {
		body.Status = models.StatusAvailable
	}
	if !validStatus(body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	product := models.Product{
		Name:        body.Name,
		Description: body.Description,
		Price:       price,
		Status:      body.Status,
	}
	if userID, err := primitive.ObjectIDFromHex(c.GetString("userId")); err == nil {
		product.CreatedBy = userID
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()
	if err := p.products.Create(ctx, &product); err != nil {
		p.logger.Error("create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added successfully", "product": product})
}

func (p *ProductController) Update(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var body struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Price       json.RawMessage `json:"price"`
		Status      *string         `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}
	if len(body.Price) > 0 {
		price, err := parsePrice(body.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		update["price"] = price
	}
	if body.Status != nil {
		if !validStatus(*body.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
			return
		}
		update["status"] = *body.Status
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	product, err := p.products.Update(ctx, objID, update)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		p.logger.Error("update product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}
