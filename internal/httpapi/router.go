// Package httpapi is the thin HTTP glue over the vehicle and offer services:
// route registration, parameter parsing, and mapping the error taxonomy to
// status codes.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/internal/errs"
	"github.com/carsoffer/go-cars-offers/internal/offer"
	"github.com/carsoffer/go-cars-offers/internal/vehicle"
)

// NewRouter assembles the gin engine with both resource groups mounted.
func NewRouter(vehicles vehicle.Service, offers offer.Service, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	vh := &vehicleHandler{svc: vehicles, log: log}
	cars := r.Group("/cars")
	{
		cars.GET("", vh.list)
		cars.GET("/search", vh.search)
		cars.GET("/findByBrandAndModel", vh.findByBrandAndModel)
		cars.GET("/findByYearRange", vh.findByYearRange)
		cars.GET("/:id", vh.get)
		cars.GET("/:id/with-offers", vh.getWithOffers)
		cars.POST("", vh.create)
		cars.PUT("/:id", vh.update)
		cars.DELETE("/:id", vh.delete)
	}

	oh := &offerHandler{svc: offers, log: log}
	offersGroup := r.Group("/offers")
	{
		offersGroup.GET("", oh.list)
		offersGroup.GET("/search", oh.search)
		offersGroup.GET("/findByCustomerNames", oh.findByCustomerNames)
		offersGroup.GET("/findByPricesBetween", oh.findByPricesBetween)
		offersGroup.GET("/:id", oh.get)
		offersGroup.POST("", oh.create)
		offersGroup.PUT("/:id", oh.update)
		offersGroup.DELETE("/:id", oh.delete)
	}

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy onto status codes. Anything outside the
// taxonomy is an internal fault and stays opaque to the caller.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errs.IsDuplicateKey(err):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errs.IsConflictingUpdate(err):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errs.IsInvalidArgument(err), errs.IsInvalidSortField(err):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

var errBadID = errors.New("invalid id")
