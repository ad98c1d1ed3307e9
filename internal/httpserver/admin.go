package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func adminLoginHandler(admins AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password required")
			return
		}
		sess, err := admins.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func adminLogoutHandler(admins AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := admins.Logout(c.Request.Context(), c.GetString(tokenCtxKey)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminMeHandler(c *gin.Context) {
	user := adminUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// orderFilter reads ?status=&q=&sort=&order= into a listing filter.
func orderFilter(c *gin.Context) domain.OrderFilter {
	return domain.OrderFilter{
		Status: domain.OrderStatus(strings.TrimSpace(c.Query("status"))),
		Search: c.Query("q"),
		SortBy: domain.OrderSort(c.Query("sort")),
		Desc:   !strings.EqualFold(c.Query("order"), "asc"),
	}
}

func listOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.List(c.Request.Context(), orderFilter(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

func exportOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := orders.ExportCSV(c.Request.Context(), &buf, orderFilter(c)); err != nil {
			writeError(c, err)
			return
		}
		name := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format(time.DateOnly))
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func updateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "status required")
			return
		}
		o, err := orders.Transition(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type productRequest struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Images        []string        `json:"images"`
	CategoryID    *string         `json:"categoryId"`
	Material      string          `json:"material"`
	StockQuantity int             `json:"stockQuantity"`
}

func (r productRequest) toDomain() domain.Product {
	p := domain.Product{
		ID:            strings.TrimSpace(r.ID),
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Images:        r.Images,
		Material:      r.Material,
		StockQuantity: r.StockQuantity,
	}
	if r.CategoryID != nil && strings.TrimSpace(*r.CategoryID) != "" {
		id := strings.TrimSpace(*r.CategoryID)
		p.CategoryID = &id
	}
	return p
}

func upsertProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid product payload")
			return
		}
		p, err := products.Upsert(c.Request.Context(), req.toDomain())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type stockRequest struct {
	StockQuantity *int `json:"stockQuantity" binding:"required"`
}

func setStockHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "stockQuantity required")
			return
		}
		p, err := products.SetStock(c.Request.Context(), c.Param("id"), *req.StockQuantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// multipartOverhead leaves room for form boundaries around the image part.
const multipartOverhead = 1 << 20

func uploadImageHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+multipartOverhead)
		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(c, storage.ErrImageTooLarge)
				return
			}
			badRequest(c, "file field required")
			return
		}
		if fh.Size > storage.MaxImageSize {
			writeError(c, storage.ErrImageTooLarge)
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
		if err != nil {
			writeError(c, err)
			return
		}

		url, err := products.UploadImage(c.Request.Context(), data)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

func listInquiriesHandler(inquiries InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := inquiries.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

func deleteInquiryHandler(inquiries InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := inquiries.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
