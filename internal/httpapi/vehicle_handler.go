package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/internal/vehicle"
)

type vehicleHandler struct {
	svc vehicle.Service
	log *zap.Logger
}

func (h *vehicleHandler) list(c *gin.Context) {
	page := intQuery(c, "page", 0)
	pageSize := intQuery(c, "pageSize", 20)

	result, err := h.svc.ListPaged(c.Request.Context(), page, pageSize)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *vehicleHandler) get(c *gin.Context) {
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

func (h *vehicleHandler) getWithOffers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	result, err := h.svc.GetWithOffers(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *vehicleHandler) create(c *gin.Context) {
	var in vehicle.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Car successfully created", "car": result})
}

func (h *vehicleHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	var in vehicle.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car successfully updated", "car": result})
}

func (h *vehicleHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errBadID.Error()})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully deleted car!"})
}

func (h *vehicleHandler) search(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "year must be a number"})
			return
		}
		year = &n
	}

	var fuelKind *model.FuelKind
	if raw := c.Query("fuelType"); raw != "" {
		kind, ok := model.ParseFuelKind(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid fuel type"})
			return
		}
		fuelKind = &kind
	}

	criteria, err := vehicle.NewSearchCriteria(
		c.Query("brand"),
		c.Query("model"),
		year,
		c.Query("color"),
		fuelKind,
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

func (h *vehicleHandler) findByBrandAndModel(c *gin.Context) {
	result, err := h.svc.FindByBrandAndModel(
		c.Request.Context(),
		c.Query("brand"),
		c.Query("model"),
		intQuery(c, "page", 0),
		intQuery(c, "size", 10),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *vehicleHandler) findByYearRange(c *gin.Context) {
	result, err := h.svc.FindByYearRange(
		c.Request.Context(),
		intQuery(c, "startYear", 0),
		intQuery(c, "endYear", 0),
		intQuery(c, "page", 0),
		intQuery(c, "size", 10),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func boolQuery(c *gin.Context, name string, fallback bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
