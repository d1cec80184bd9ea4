package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productrepo "shopcart/internal/repository/product"
)

func listProductsHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.ListByStore(c.Request.Context(), c.Param("store"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products), "results": products})
	}
}

func getProductHandler(repo productrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := repo.GetBySKU(c.Request.Context(), c.Param("store"), c.Param("sku"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
