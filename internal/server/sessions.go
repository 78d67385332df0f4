package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	wizarddomain "github.com/smallbiznis/quoteflow/internal/wizard/domain"
)

const startDateLayout = "2006-01-02"

type jumpRequest struct {
	Stage string `json:"stage"`
}

type setPlanRequest struct {
	PlanID string `json:"plan_id"`
}

type setBillingCycleRequest struct {
	BillingCycle string `json:"billing_cycle"`
}

type setAddOnQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type setStartDateRequest struct {
	StartDate *string `json:"start_date"`
}

type applyDiscountRequest struct {
	Code string `json:"code"`
}

func (s *Server) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.catalog.Current()})
}

func (s *Server) StartSession(c *gin.Context) {
	view, err := s.wizard.Start(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": view})
}

func (s *Server) GetSession(c *gin.Context) {
	view, err := s.wizard.Get(c.Request.Context(), sessionID(c))
	s.respondView(c, view, err)
}

func (s *Server) EndSession(c *gin.Context) {
	if err := s.wizard.End(c.Request.Context(), sessionID(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) UpdateAssessment(c *gin.Context) {
	var patch assessmentdomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.wizard.UpdateAssessment(c.Request.Context(), sessionID(c), patch)
	s.respondView(c, view, err)
}

func (s *Server) NextStage(c *gin.Context) {
	view, err := s.wizard.Next(c.Request.Context(), sessionID(c))
	s.respondView(c, view, err)
}

func (s *Server) PrevStage(c *gin.Context) {
	view, err := s.wizard.Prev(c.Request.Context(), sessionID(c))
	s.respondView(c, view, err)
}

func (s *Server) JumpStage(c *gin.Context) {
	var req jumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	stage := wizarddomain.Stage(strings.ToLower(strings.TrimSpace(req.Stage)))
	view, err := s.wizard.Jump(c.Request.Context(), sessionID(c), stage)
	s.respondView(c, view, err)
}

func (s *Server) RestartSession(c *gin.Context) {
	view, err := s.wizard.Restart(c.Request.Context(), sessionID(c))
	s.respondView(c, view, err)
}

func (s *Server) SetPlan(c *gin.Context) {
	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	planID := catalogdomain.PlanID(strings.TrimSpace(req.PlanID))
	view, err := s.wizard.SetPlan(c.Request.Context(), sessionID(c), planID)
	s.respondView(c, view, err)
}

func (s *Server) SetBillingCycle(c *gin.Context) {
	var req setBillingCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cycle := catalogdomain.BillingCycle(strings.ToLower(strings.TrimSpace(req.BillingCycle)))
	view, err := s.wizard.SetBillingCycle(c.Request.Context(), sessionID(c), cycle)
	s.respondView(c, view, err)
}

func (s *Server) SetAddOnQuantity(c *gin.Context) {
	var req setAddOnQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		AbortWithError(c, newValidationError("quantity", "invalid_quantity", "quantity is required"))
		return
	}

	addOnID := strings.TrimSpace(c.Param("addon"))
	view, err := s.wizard.SetAddOnQuantity(c.Request.Context(), sessionID(c), addOnID, *req.Quantity)
	s.respondView(c, view, err)
}

// SetStartDate accepts YYYY-MM-DD; null or an empty string clears the date.
func (s *Server) SetStartDate(c *gin.Context) {
	var req setStartDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var date *time.Time
	if req.StartDate != nil && strings.TrimSpace(*req.StartDate) != "" {
		parsed, err := time.Parse(startDateLayout, strings.TrimSpace(*req.StartDate))
		if err != nil {
			AbortWithError(c, newValidationError("start_date", "invalid_start_date", "start_date must be YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	view, err := s.wizard.SetStartDate(c.Request.Context(), sessionID(c), date)
	s.respondView(c, view, err)
}

func (s *Server) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.wizard.ApplyDiscount(c.Request.Context(), sessionID(c), req.Code)
	s.respondView(c, view, err)
}

func (s *Server) ClearDiscount(c *gin.Context) {
	view, err := s.wizard.ClearDiscount(c.Request.Context(), sessionID(c))
	s.respondView(c, view, err)
}

func (s *Server) respondView(c *gin.Context, view wizarddomain.View, err error) {
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
