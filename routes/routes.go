package routes

import (
	"net/http"

	"pos/controllers"
	"pos/middleware"
	"pos/models"
	"pos/validation"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *controllers.AuthController
	POS       *controllers.POSController
	Products  *controllers.ProductController
	Sales     *controllers.SalesController
	Users     *controllers.UserController
	Tokens    middleware.Tokens
	Blacklist middleware.Blacklist
	Accounts  middleware.Accounts
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	auth := middleware.AuthMiddleware(h.Tokens, h.Blacklist, h.Accounts)
	teller := middleware.RequireRole(models.RoleTeller)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/pos") })
	r.GET("/login", h.Auth.LoginPage)
	r.POST("/login", validation.Require(h.Auth.LoginFormInvalid, controllers.LoginFields...), h.Auth.LoginForm)
	r.POST("/logout", auth, h.Auth.LogoutForm)

	pages := r.Group("/pos")
	pages.Use(auth, teller)
	{
		pages.GET("", h.POS.Page)
		pages.POST("/cart", h.POS.UpdateCartForm)
		pages.POST("/checkout", validation.Require(h.POS.CheckoutInvalid, controllers.CheckoutFields...), h.POS.Checkout)
	}

	api := r.Group("/api")
	{
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)

		protected := api.Group("/")
		protected.Use(auth)
		{
			protected.POST("/logout", h.Auth.Logout)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", h.Users.List)
				admin.PUT("/users/:id", h.Users.Update)
			}

			manager := protected.Group("/manager")
			manager.Use(middleware.RequireRole(models.RoleManager))
			{
				manager.GET("/products", h.Products.List)
				manager.POST("/products", h.Products.Create)
				manager.PUT("/products/:id", h.Products.Update)
				manager.GET("/reports", h.Sales.Reports)
			}

			tellerAPI := protected.Group("/")
			tellerAPI.Use(teller)
			{
				tellerAPI.GET("/teller/today-sales", h.Sales.TodaySales)
				tellerAPI.GET("/pos/cart", h.POS.GetCart)
				tellerAPI.PUT("/pos/cart/:productId", h.POS.SetQuantity)
				tellerAPI.DELETE("/pos/cart", h.POS.ResetCart)
			}
		}
	}
}
