package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Gunvolt24/kgroup/internal/kafka"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/internal/usecase"
	"github.com/Gunvolt24/kgroup/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	service ports.ConsumerAdminService
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — timeout ограничивает обращение к сервису (0 — без ограничения).
func NewHandler(service ports.ConsumerAdminService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// offsetRequest — тело PUT /consumer/offset.
type offsetRequest struct {
	Offset *int64 `json:"offset" binding:"required,gte=0"`
}

// NewRouter — serviceName включает otelgin (пустое — без трассировки).
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/consumer", h.getConsumer)
	r.PUT("/consumer/offset", h.setOffset)
	r.POST("/consumer/shutdown", h.shutdown)
	r.GET("/consumer/records", h.recentRecords)
	r.GET("/consumer/records/:partition/:offset", h.recentRecord)
	r.GET("/topics/:topic/records", h.archivedRecords)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

func (h *Handler) getConsumer(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Info(c.Request.Context()))
}

func (h *Handler) setOffset(c *gin.Context) {
	var req offsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	ctx := c.Request.Context()
	if err := h.service.SetOffset(ctx, *req.Offset); err != nil {
		if errors.Is(err, kafka.ErrNotRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "consumer group is not running"})
			return
		}
		h.log.Errorf(ctx, "SetOffset failed offset=%d err=%v", *req.Offset, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, h.service.Info(ctx))
}

func (h *Handler) shutdown(c *gin.Context) {
	ctx := c.Request.Context()
	h.service.Shutdown(ctx)
	c.JSON(http.StatusAccepted, h.service.Info(ctx))
}

func (h *Handler) recentRecords(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)
	c.JSON(http.StatusOK, h.service.RecentRecords(c.Request.Context(), limit, offset))
}

func (h *Handler) recentRecord(c *gin.Context) {
	partition, perr := strconv.Atoi(c.Param("partition"))
	offset, oerr := strconv.ParseInt(c.Param("offset"), 10, 64)
	if perr != nil || oerr != nil || partition < 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "partition and offset must be non-negative integers"})
		return
	}

	rec, ok := h.service.RecentRecord(c.Request.Context(), partition, offset)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not in buffer"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) archivedRecords(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty topic"})
		return
	}
	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)

	ctx, cancel := h.withTimeout(c.Request.Context())
	defer cancel()

	records, err := h.service.ArchivedRecords(ctx, topic, limit, offset)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, records)
	case errors.Is(err, usecase.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive is disabled"})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(ctx, "ArchivedRecords timeout topic=%s", topic)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
	default:
		h.log.Errorf(ctx, "ArchivedRecords failed topic=%s err=%v", topic, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
