package httpserver

import (
	"net/http"
	"time"

	"storefront/internal/cartstate"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productRefRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// respondCart writes the full cart view, merged with extra top-level fields.
func respondCart(c *gin.Context, svc CartService, status int, extra gin.H) {
	view, err := svc.View(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	body := gin.H{"items": nonNil(view.Lines), "totals": view.Totals}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func viewCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondCart(c, svc, http.StatusOK, nil)
	}
}

func addToCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRefRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		line, err := svc.Add(c.Request.Context(), sessionID(c), req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, gin.H{"line": line})
	}
}

func incrementCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := svc.Increment(c.Request.Context(), sessionID(c), c.Param("productId"))
		if err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, gin.H{"line": line})
	}
}

func decrementCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, removed, err := svc.Decrement(c.Request.Context(), sessionID(c), c.Param("productId"))
		if err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, lineOrRemoved(line, removed))
	}
}

func setCartQuantityHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity required")
			return
		}
		line, removed, err := svc.SetQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), *req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, lineOrRemoved(line, removed))
	}
}

func removeFromCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), sessionID(c), c.Param("productId")); err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, nil)
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), sessionID(c)); err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, svc, http.StatusOK, nil)
	}
}

func lineOrRemoved(line cartstate.CartLine, removed bool) gin.H {
	if removed {
		return gin.H{"removed": true}
	}
	return gin.H{"line": line, "removed": false}
}

func listWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), sessionID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": nonNil(list)})
	}
}

func addToWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRefRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		list, err := svc.Add(c.Request.Context(), sessionID(c), req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": nonNil(list)})
	}
}

func removeFromWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), sessionID(c), c.Param("productId")); err != nil {
			writeError(c, err)
			return
		}
		listWishlistHandler(svc)(c)
	}
}

func clearWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), sessionID(c)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": []cartstate.WishlistEntry{}})
	}
}

func moveToCartHandler(wish WishlistService, cartSvc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := wish.MoveToCart(c.Request.Context(), sessionID(c), c.Param("productId"))
		if err != nil {
			writeError(c, err)
			return
		}
		respondCart(c, cartSvc, http.StatusOK, gin.H{"line": line})
	}
}

type drawerEntry struct {
	Kind       string          `json:"kind"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ImageRef   string          `json:"imageRef,omitempty"`
	Quantity   int             `json:"quantity,omitempty"`
	StockLimit int             `json:"stockLimit,omitempty"`
	SavedAt    *time.Time      `json:"savedAt,omitempty"`
}

const (
	drawerKindCart     = "cart"
	drawerKindWishlist = "wishlist"
)

// drawerHandler renders cart lines followed by wishlist entries.
func drawerHandler(src DrawerSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := src.Get(c.Request.Context(), sessionID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		entries := store.Entries()
		out := make([]drawerEntry, 0, len(entries))
		for _, e := range entries {
			switch v := e.(type) {
			case cartstate.CartLine:
				out = append(out, drawerEntry{
					Kind:       drawerKindCart,
					ProductID:  v.ProductID,
					Name:       v.Name,
					UnitPrice:  v.UnitPrice,
					ImageRef:   v.ImageRef,
					Quantity:   v.Quantity,
					StockLimit: v.StockLimit,
				})
			case cartstate.WishlistEntry:
				saved := v.SavedAt
				out = append(out, drawerEntry{
					Kind:      drawerKindWishlist,
					ProductID: v.ProductID,
					Name:      v.Name,
					UnitPrice: v.UnitPrice,
					ImageRef:  v.ImageRef,
					SavedAt:   &saved,
				})
			}
		}
		c.JSON(http.StatusOK, gin.H{"entries": out, "totals": store.Totals()})
	}
}
