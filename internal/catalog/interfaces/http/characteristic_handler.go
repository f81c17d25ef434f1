package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/internal/catalog/application"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/response"
)

// CharacteristicHandler 特征 HTTP 处理器
type CharacteristicHandler struct {
	svc *application.CharacteristicService
}

func NewCharacteristicHandler(svc *application.CharacteristicService) *CharacteristicHandler {
	return &CharacteristicHandler{svc: svc}
}

func (h *CharacteristicHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/characteristics", h.List)
	r.GET("/articles/:id/characteristics", h.ListForArticle)
}

func (h *CharacteristicHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/characteristics", h.Create)
	r.DELETE("/characteristics/:id", h.Delete)
	r.POST("/articles/:id/characteristics", h.Assign)
	r.DELETE("/articles/:id/characteristics/:characteristicId", h.Unassign)
}

type CreateCharacteristicRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CharacteristicHandler) Create(c *gin.Context) {
	var req CreateCharacteristicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	characteristic, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create characteristic", "error", err)
		response.Error(c, err)
		return
	}
	response.Created(c, characteristic)
}

func (h *CharacteristicHandler) List(c *gin.Context) {
	characteristics, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, characteristics)
}

func (h *CharacteristicHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid characteristic id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "characteristic deleted")
}

type AssignCharacteristicRequest struct {
	CharacteristicID uint   `json:"characteristic_id" binding:"required"`
	Value            string `json:"value" binding:"required"`
}

func (h *CharacteristicHandler) Assign(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	var req AssignCharacteristicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	if err := h.svc.Assign(c.Request.Context(), uint(articleID), req.CharacteristicID, req.Value); err != nil {
		logger.Error(c.Request.Context(), "Failed to assign characteristic", "error", err)
		response.Error(c, err)
		return
	}
	response.Message(c, "characteristic assigned")
}

func (h *CharacteristicHandler) ListForArticle(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	views, err := h.svc.ListForArticle(c.Request.Context(), uint(articleID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

func (h *CharacteristicHandler) Unassign(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	characteristicID, err := strconv.ParseUint(c.Param("characteristicId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid characteristic id")
		return
	}
	if err := h.svc.Unassign(c.Request.Context(), uint(articleID), uint(characteristicID)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "characteristic unassigned")
}
