// internal/api/handlers/allocation_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shipwise/allocator/internal/domain"
	"github.com/shipwise/allocator/internal/service"
	"github.com/shipwise/allocator/internal/snapshot"
)

type AllocationHandler struct {
	service *service.AllocationService
}

func NewAllocationHandler(service *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{service: service}
}

type optimizeRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Options  struct {
		Rate               float64  `json:"rate"`
		EligibleWarehouses []string `json:"eligible_warehouses"`
		IgnoreCapacity     bool     `json:"ignore_capacity"`
	} `json:"options"`
}

type planCostRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Options  struct {
		Rate float64 `json:"rate"`
	} `json:"options"`
}

type compareRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Options  struct {
		CustomerWarehouses []string `json:"customer_warehouses"`
	} `json:"options"`
}

func (h *AllocationHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	snapshot.Normalize(&req.Snapshot)

	result, err := h.service.Optimize(c.Request.Context(), req.Snapshot, service.OptimizeOptions{
		Rate:               req.Options.Rate,
		EligibleWarehouses: req.Options.EligibleWarehouses,
		IgnoreCapacity:     req.Options.IgnoreCapacity,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "optimization failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AllocationHandler) PlanCost(c *gin.Context) {
	var req planCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	snapshot.Normalize(&req.Snapshot)

	result, err := h.service.CostPlan(c.Request.Context(), req.Snapshot, service.PlanOptions{
		Rate: req.Options.Rate,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "plan costing failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AllocationHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	snapshot.Normalize(&req.Snapshot)

	report, err := h.service.Compare(c.Request.Context(), req.Snapshot, service.CompareOptions{
		CustomerWarehouses: req.Options.CustomerWarehouses,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "comparison failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
