package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	productrepo "shopcart/internal/repository/product"
	cartsvc "shopcart/internal/service/cart"
)

// Deps carries the services the handlers need.
type Deps struct {
	CartSvc     *cartsvc.Service
	ProductRepo productrepo.Repository
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	store := router.Group("/stores/:store")
	{
		store.GET("/products", listProductsHandler(deps.ProductRepo))
		store.GET("/products/:sku", getProductHandler(deps.ProductRepo))

		store.POST("/carts", createCartHandler(deps.CartSvc))
		store.GET("/carts", getActiveCartHandler(deps.CartSvc))
		store.GET("/carts/:id", getCartHandler(deps.CartSvc))
		store.POST("/carts/:id", updateCartHandler(deps.CartSvc))
		store.POST("/carts/:id/reconcile", reconcileCartHandler(deps.CartSvc))
	}

	return router
}
