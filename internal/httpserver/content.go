package httpserver

import (
	"net/http"

	"storefront/internal/service/announcement"
	"storefront/internal/service/carousel"

	"github.com/gin-gonic/gin"
)

func listSlidesHandler(slides CarouselService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := slides.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

func createSlideHandler(slides CarouselService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req carousel.SlideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid slide payload")
			return
		}
		slide, err := slides.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, slide)
	}
}

func updateSlideHandler(slides CarouselService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req carousel.SlideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid slide payload")
			return
		}
		slide, err := slides.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, slide)
	}
}

func deleteSlideHandler(slides CarouselService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := slides.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func reorderSlidesHandler(slides CarouselService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "ids required")
			return
		}
		list, err := slides.Reorder(c.Request.Context(), req.IDs)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "results": nonNil(list)})
	}
}

// currentAnnouncementHandler answers 204 when there is nothing to show.
func currentAnnouncementHandler(announcements AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := announcements.Current(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if a == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func getAnnouncementHandler(announcements AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := announcements.Get(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func saveAnnouncementHandler(announcements AnnouncementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req announcement.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid announcement payload")
			return
		}
		a, err := announcements.Save(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func dashboardHandler(analytics AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := analytics.Dashboard(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
