package router

import (
	"checkout-service/internal/transport/http/handlers"
	"checkout-service/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func New(checkout *handlers.CheckoutHandler, cart *handlers.CartHandler, actorMW gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.Session())
	if actorMW != nil {
		r.Use(actorMW)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/payment-providers", checkout.PaymentProviders)

		v1.POST("/orders", checkout.OrderAdd)
		v1.GET("/orders", checkout.ListOrders)
		v1.GET("/orders/:key", checkout.GetOrder)
		v1.POST("/orders/:key/checkout/start", checkout.CheckoutStart)
		v1.POST("/orders/:key/checkout/order", checkout.CheckoutOrder)

		v1.POST("/carts", cart.CreateCart)
		v1.GET("/carts/:key/children", cart.GetChildren)
		v1.POST("/carts/:key/items", cart.AddItem)
		v1.DELETE("/carts/:key/items/:item", cart.RemoveItem)
		v1.GET("/carts/shipping-options", cart.ShippingOptions)
		v1.POST("/carts/shipping", cart.SetShipping)
		v1.POST("/carts/shipping-address", cart.SetShippingAddress)
	}

	return r
}
