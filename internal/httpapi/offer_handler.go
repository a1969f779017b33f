package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/internal/offer"
)

type offerHandler struct {
	svc offer.Service
	log *zap.Logger
}

func (h *offerHandler) list(c *gin.Context) {
	result, err := h.svc.ListPaged(c.Request.Context(), intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *offerHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *offerHandler) create(c *gin.Context) {
	var in offer.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Offer successfully created", "offer": result})
}

func (h *offerHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	var in offer.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer successfully updated", "offer": result})
}

func (h *offerHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted offer!"})
}

func (h *offerHandler) search(c *gin.Context) {
	minPrice, ok := floatQuery(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := floatQuery(c, "maxPrice")
	if !ok {
		return
	}
	startDate, ok := dateQuery(c, "startDate")
	if !ok {
		return
	}
	endDate, ok := dateQuery(c, "endDate")
	if !ok {
		return
	}

	criteria, err := offer.NewSearchCriteria(
		c.Query("customerFirstName"),
		c.Query("customerLastName"),
		minPrice,
		maxPrice,
		startDate,
		endDate,
		c.DefaultQuery("sortBy", "id"),
		boolQuery(c, "asc", true),
		intQuery(c, "page", 0),
		intQuery(c, "size", 10),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	result, err := h.svc.Search(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *offerHandler) findByCustomerNames(c *gin.Context) {
	result, err := h.svc.FindByCustomerName(
		c.Request.Context(),
		c.Query("firstName"),
		c.Query("lastName"),
		intQuery(c, "page", 0),
		intQuery(c, "size", 10),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *offerHandler) findByPricesBetween(c *gin.Context) {
	minPrice, ok := floatQuery(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := floatQuery(c, "maxPrice")
	if !ok {
		return
	}

	result, err := h.svc.FindByPriceRange(
		c.Request.Context(),
		minPrice,
		maxPrice,
		intQuery(c, "page", 0),
		intQuery(c, "size", 10),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// floatQuery parses an optional float parameter, writing a 400 itself when
// the value is present but malformed.
func floatQuery(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: name + " must be a number"})
		return nil, false
	}
	return &f, true
}

// dateQuery parses an optional ISO date parameter.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: name + " must be an ISO date (YYYY-MM-DD)"})
		return nil, false
	}
	return &t, true
}
