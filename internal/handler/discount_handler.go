package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/internal/service"
	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
	"github.com/noah-isme/sma-fee-api/pkg/response"
)

// DiscountHandler exposes discount category and assignment endpoints.
type DiscountHandler struct {
	service *service.DiscountService
}

// NewDiscountHandler constructs the handler.
func NewDiscountHandler(service *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// ListCategories godoc
// @Summary List discount categories
// @Tags Discounts
// @Produce json
// @Param applicationType query string false "MANUAL or AUTO"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /finance/discount-categories [get]
func (h *DiscountHandler) ListCategories(c *gin.Context) {
	filter := models.DiscountCategoryFilter{
		ApplicationType: models.DiscountApplication(strings.TrimSpace(c.Query("applicationType"))),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	categories, err := h.service.ListCategories(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreateCategory godoc
// @Summary Create a discount category
// @Tags Discounts
// @Accept json
// @Produce json
// @Param payload body service.CreateDiscountCategoryRequest true "Category"
// @Success 201 {object} response.Envelope
// @Router /finance/discount-categories [post]
func (h *DiscountHandler) CreateCategory(c *gin.Context) {
	var req service.CreateDiscountCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory godoc
// @Summary Update a discount category
// @Tags Discounts
// @Accept json
// @Produce json
// @Param id path string true "Discount category ID"
// @Param payload body service.UpdateDiscountCategoryRequest true "Category"
// @Success 200 {object} response.Envelope
// @Router /finance/discount-categories/{id} [put]
func (h *DiscountHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateDiscountCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// StudentAssignments godoc
// @Summary List a student's discount assignments
// @Tags Discounts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /finance/students/{id}/discounts [get]
func (h *DiscountHandler) StudentAssignments(c *gin.Context) {
	assignments, err := h.service.ListStudentAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Assign godoc
// @Summary Assign a discount to a student
// @Tags Discounts
// @Accept json
// @Produce json
// @Param payload body service.AssignDiscountRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Router /finance/discount-assignments [post]
func (h *DiscountHandler) Assign(c *gin.Context) {
	var req service.AssignDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	assignment, err := h.service.AssignToStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

type toggleAssignmentRequest struct {
	IsActive bool `json:"is_active"`
}

// Toggle godoc
// @Summary Activate or deactivate a discount assignment
// @Tags Discounts
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body toggleAssignmentRequest true "Active flag"
// @Success 204
// @Router /finance/discount-assignments/{id} [patch]
func (h *DiscountHandler) Toggle(c *gin.Context) {
	var req toggleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.service.SetAssignmentActive(c.Request.Context(), c.Param("id"), req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
