package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/internal/catalog/application"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/response"
)

// ImageHandler 商品图片 HTTP 处理器
type ImageHandler struct {
	svc *application.ImageService
}

func NewImageHandler(svc *application.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func (h *ImageHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/articles/:id/images", h.ListForArticle)
}

func (h *ImageHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/images", h.Create)
	r.DELETE("/images/:id", h.Delete)
}

type CreateImageRequest struct {
	ArticleID   uint   `json:"article_id" binding:"required"`
	Data        string `json:"data" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (h *ImageHandler) Create(c *gin.Context) {
	var req CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	img, err := h.svc.Create(c.Request.Context(), application.CreateImageCommand{
		ArticleID:   req.ArticleID,
		Data:        req.Data,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create image", "error", err)
		response.Error(c, err)
		return
	}
	response.Created(c, img)
}

func (h *ImageHandler) ListForArticle(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	images, err := h.svc.ListForArticle(c.Request.Context(), uint(articleID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, images)
}

func (h *ImageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid image id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "image deleted")
}
