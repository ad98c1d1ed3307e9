package httpserver

import (
	"net/http"
	"strconv"

	productrepo "storefront/internal/repository/product"
	"storefront/internal/service/inquiry"

	"github.com/gin-gonic/gin"
)

func createSessionHandler(sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, sessions.Issue())
	}
}

func listProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		inStock, _ := strconv.ParseBool(c.Query("inStock"))
		list, err := products.List(c.Request.Context(), productrepo.ListFilter{
			CategoryID:  c.Query("category"),
			Search:      c.Query("q"),
			InStockOnly: inStock,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

func getProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listCategoriesHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

func createInquiryHandler(inquiries InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inquiry.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid json body")
			return
		}
		out, err := inquiries.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
