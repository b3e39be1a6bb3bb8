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

// FeeHandler exposes fee category and fee structure endpoints.
type FeeHandler struct {
	service *service.FeeService
}

// NewFeeHandler constructs the handler.
func NewFeeHandler(service *service.FeeService) *FeeHandler {
	return &FeeHandler{service: service}
}

// ListCategories godoc
// @Summary List fee categories
// @Tags Fees
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /finance/fee-categories [get]
func (h *FeeHandler) ListCategories(c *gin.Context) {
	filter := models.FeeCategoryFilter{Search: strings.TrimSpace(c.Query("search"))}
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

// GetCategory godoc
// @Summary Get a fee category
// @Tags Fees
// @Produce json
// @Param id path string true "Fee category ID"
// @Success 200 {object} response.Envelope
// @Router /finance/fee-categories/{id} [get]
func (h *FeeHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// CreateCategory godoc
// @Summary Create a fee category
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.CreateFeeCategoryRequest true "Category"
// @Success 201 {object} response.Envelope
// @Router /finance/fee-categories [post]
func (h *FeeHandler) CreateCategory(c *gin.Context) {
	var req service.CreateFeeCategoryRequest
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
// @Summary Update a fee category
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee category ID"
// @Param payload body service.UpdateFeeCategoryRequest true "Category"
// @Success 200 {object} response.Envelope
// @Router /finance/fee-categories/{id} [put]
func (h *FeeHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateFeeCategoryRequest
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

// ListStructures godoc
// @Summary List fee structures
// @Tags Fees
// @Produce json
// @Param classId query string false "Class ID"
// @Param feeCategoryId query string false "Fee category ID"
// @Param academicYear query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /finance/fee-structures [get]
func (h *FeeHandler) ListStructures(c *gin.Context) {
	filter := models.FeeStructureFilter{
		ClassID:       strings.TrimSpace(c.Query("classId")),
		FeeCategoryID: strings.TrimSpace(c.Query("feeCategoryId")),
		AcademicYear:  strings.TrimSpace(c.Query("academicYear")),
	}
	structures, err := h.service.ListStructures(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, structures, nil)
}

// CreateStructure godoc
// @Summary Create a fee structure
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.CreateFeeStructureRequest true "Structure"
// @Success 201 {object} response.Envelope
// @Router /finance/fee-structures [post]
func (h *FeeHandler) CreateStructure(c *gin.Context) {
	var req service.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	structure, err := h.service.CreateStructure(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, structure)
}

// UpdateStructure godoc
// @Summary Update a fee structure amount
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee structure ID"
// @Param payload body service.UpdateFeeStructureRequest true "Amount"
// @Success 204
// @Router /finance/fee-structures/{id} [put]
func (h *FeeHandler) UpdateStructure(c *gin.Context) {
	var req service.UpdateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.service.UpdateStructureAmount(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
