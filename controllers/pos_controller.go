package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"pos/cart"
	"pos/database"
	"pos/middleware"
	"pos/models"
	"pos/validation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CheckoutFields are the checkout form fields that must not be blank.
var CheckoutFields = []string{"customer_name", "payment_method"}

type POSController struct {
	products     ProductStore
	transactions TransactionStore
	sessions     *CartSessions
	logger       *zap.Logger
}

func NewPOSController(products ProductStore, transactions TransactionStore, sessions *CartSessions, logger *zap.Logger) *POSController {
	return &POSController{
		products:     products,
		transactions: transactions,
		sessions:     sessions,
		logger:       logger,
	}
}

type productCard struct {
	Name     string
	Price    string
	Field    string
	Quantity int
}

type posPage struct {
	UserName       string
	Products       []productCard
	Summary        cart.Summary
	Validation     validation.Result
	Message        string
	Completed      string
	CustomerName   string
	PaymentMethod  string
	PaymentMethods []string
}

func buildCatalog(products []models.Product) (*cart.Catalog, error) {
	items := make([]cart.Product, 0, len(products))
	for _, p := range products {
		items = append(items, cart.Product{
			ID:    cart.ProductID(p.ID.Hex()),
			Name:  p.Name,
			Price: decimal.NewFromFloat(p.Price),
		})
	}
	return cart.NewCatalog(items)
}

// withCart runs fn against the caller's cart. The catalog of available
// products is read on every call, so prices and the product list always
// match what checkout charges.
func (p *POSController) withCart(c *gin.Context, fn func(*cart.Cart) error) error {
	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()
	products, err := p.products.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	catalog, err := buildCatalog(products)
	if err != nil {
		return err
	}
	return p.sessions.Do(sessionKey(c), catalog, fn)
}

func (p *POSController) renderPage(c *gin.Context, status int, page posPage) {
	err := p.withCart(c, func(ct *cart.Cart) error {
		for _, prod := range ct.Catalog().Products() {
			page.Products = append(page.Products, productCard{
				Name:     prod.Name,
				Price:    prod.Price.StringFixed(2),
				Field:    cart.FieldName(prod.ID),
				Quantity: ct.Quantity(prod.ID),
			})
		}
		page.Summary = ct.Render()
		return nil
	})
	if err != nil {
		p.logger.Error("render pos page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	page.UserName = c.GetString("userName")
	page.PaymentMethods = models.PaymentMethods
	if page.Validation.Invalid == nil {
		page.Validation = validation.Result{Invalid: map[string]bool{}}
	}
	c.HTML(status, "pos.html", page)
}

func (p *POSController) Page(c *gin.Context) {
	page := posPage{}
	if total, err := decimal.NewFromString(c.Query("completed")); err == nil {
		page.Completed = total.StringFixed(2)
	}
	p.renderPage(c, http.StatusOK, page)
}

// UpdateCartForm applies every quantity input of the cart form.
func (p *POSController) UpdateCartForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form"})
		return
	}
	err := p.withCart(c, func(ct *cart.Cart) error {
		for name, values := range c.Request.PostForm {
			id, ok := cart.ParseFieldName(name)
			if !ok || len(values) == 0 {
				continue
			}
			if err := ct.SetQuantity(id, values[len(values)-1]); err != nil && !errors.Is(err, cart.ErrUnknownProduct) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.logger.Error("update cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/pos")
}

func summaryJSON(s cart.Summary) gin.H {
	lines := make([]gin.H, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, gin.H{
			"productId": l.ProductID,
			"name":      l.Name,
			"label":     l.Label(),
			"quantity":  l.Quantity,
			"unitPrice": l.UnitPrice.StringFixed(2),
			"lineTotal": l.LineTotalText(),
		})
	}
	return gin.H{
		"lines":        lines,
		"total":        s.TotalText(),
		"hiddenFields": s.HiddenFields,
	}
}

func (p *POSController) GetCart(c *gin.Context) {
	var summary cart.Summary
	err := p.withCart(c, func(ct *cart.Cart) error {
		summary = ct.Render()
		return nil
	})
	if err != nil {
		p.logger.Error("get cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": summaryJSON(summary)})
}

// SetQuantity handles one quantity change. The quantity may be sent as
// a JSON string or number; it is read the same way as a form input.
func (p *POSController) SetQuantity(c *gin.Context) {
	var body struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	raw := string(body.Quantity)
	var s string
	if err := json.Unmarshal(body.Quantity, &s); err == nil {
		raw = s
	}

	id := cart.ProductID(c.Param("productId"))
	var summary cart.Summary
	err := p.withCart(c, func(ct *cart.Cart) error {
		if err := ct.SetQuantity(id, raw); err != nil {
			return err
		}
		summary = ct.Render()
		return nil
	})
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	case err != nil:
		p.logger.Error("set quantity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "data": summaryJSON(summary)})
}

func (p *POSController) ResetCart(c *gin.Context) {
	p.sessions.Drop(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// CheckoutInvalid renders the POS page when required checkout fields
// are blank.
func (p *POSController) CheckoutInvalid(c *gin.Context) {
	p.renderPage(c, http.StatusBadRequest, posPage{
		Validation:    validation.FromContext(c),
		Message:       validation.Message,
		CustomerName:  c.PostForm("customer_name"),
		PaymentMethod: c.PostForm("payment_method"),
	})
}

type checkoutError struct {
	msg string
}

func (e *checkoutError) Error() string { return e.msg }

// orderItems reads product_<id> fields submitted with the checkout form.
// Quantities must be integers; zero and negative lines are skipped.
func (p *POSController) orderItems(c *gin.Context, form url.Values) ([]models.TransactionItem, decimal.Decimal, error) {
	names := make([]string, 0, len(form))
	for name := range form {
		if _, ok := cart.ParseFieldName(name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()

	total := decimal.Zero
	var items []models.TransactionItem
	for _, name := range names {
		qty, err := strconv.Atoi(strings.TrimSpace(form.Get(name)))
		if err != nil {
			return nil, total, &checkoutError{msg: "Invalid quantity for " + name}
		}
		if qty <= 0 {
			continue
		}
		id, _ := cart.ParseFieldName(name)
		objID, err := primitive.ObjectIDFromHex(string(id))
		if err != nil {
			return nil, total, &checkoutError{msg: "Invalid product in " + name}
		}
		product, err := p.products.FindByID(ctx, objID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && product.Status != models.StatusAvailable) {
			return nil, total, &checkoutError{msg: "Product not available: " + string(id)}
		}
		if err != nil {
			return nil, total, err
		}

		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, models.TransactionItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  qty,
			Price:     product.Price,
		})
	}
	if len(items) == 0 {
		return nil, total, &checkoutError{msg: "Cart is empty"}
	}
	return items, total, nil
}

// Checkout records a transaction from the submitted hidden fields. The
// prices come from the product store, never from the form.
func (p *POSController) Checkout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}
	tellerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid userId"})
		return
	}

	form := c.Request.PostForm
	items, total, err := p.orderItems(c, form)
	if err == nil && !slices.Contains(models.PaymentMethods, strings.TrimSpace(form.Get("payment_method"))) {
		err = &checkoutError{msg: "Invalid payment method"}
	}
	var cerr *checkoutError
	if errors.As(err, &cerr) {
		p.renderPage(c, http.StatusBadRequest, posPage{
			Message:       cerr.msg,
			CustomerName:  form.Get("customer_name"),
			PaymentMethod: form.Get("payment_method"),
		})
		return
	}
	if err != nil {
		p.logger.Error("checkout items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	tx := models.Transaction{
		TellerID:      tellerID,
		TellerName:    claims.Name,
		CustomerName:  strings.TrimSpace(form.Get("customer_name")),
		PaymentMethod: strings.TrimSpace(form.Get("payment_method")),
		Items:         items,
		TotalAmount:   total.InexactFloat64(),
	}

	ctx, cancel := requestContext(c.Request.Context())
	defer cancel()
	if err := p.transactions.Create(ctx, &tx); err != nil {
		p.logger.Error("create transaction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	p.logger.Info("transaction completed",
		zap.String("transaction_id", tx.ID.Hex()),
		zap.String("teller_id", claims.UserID),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)),
	)

	p.sessions.Drop(sessionKey(c))
	c.Redirect(http.StatusSeeOther, "/pos?completed="+url.QueryEscape(total.StringFixed(2)))
}
