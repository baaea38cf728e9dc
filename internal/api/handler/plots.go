package handler

import (
	"sync/atomic"

	"plot-query-service/internal/api/response"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/service"

	"github.com/gin-gonic/gin"
)

// PlotHandler serves plot queries once a service has been attached. Until
// then the query and readiness endpoints answer 503.
type PlotHandler struct {
	svc    atomic.Pointer[service.PlotService]
	logger logger.Logger
}

func NewPlotHandler(log logger.Logger) *PlotHandler {
	return &PlotHandler{logger: log.WithFields(map[string]interface{}{"component": "http"})}
}

// Attach makes svc the service behind the handler. It is called once the
// catalog has loaded.
func (h *PlotHandler) Attach(svc *service.PlotService) {
	h.svc.Store(svc)
}

// List handles GET /api/v1/plots. Only the first value of a repeated
// parameter is used.
func (h *PlotHandler) List(c *gin.Context) {
	svc := h.svc.Load()
	if svc == nil {
		response.Unavailable(c, "catalog not loaded")
		return
	}

	raw := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	list, err := svc.Query(c.Request.Context(), service.TransportHTTP, raw)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Health reports liveness.
func (h *PlotHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Ready reports whether a catalog is being served.
func (h *PlotHandler) Ready(c *gin.Context) {
	svc := h.svc.Load()
	if svc == nil {
		response.Unavailable(c, "catalog not loaded")
		return
	}
	cat := svc.Catalog()
	response.Success(c, gin.H{
		"status":      "ready",
		"plots":       cat.Len(),
		"fingerprint": cat.Fingerprint(),
	})
}
