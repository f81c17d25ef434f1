package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/internal/cart/application"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/middleware"
	"github.com/wyfcoding/catalogmarket/pkg/response"
)

// CartHandler 购物车 HTTP 处理器，所有路由要求已认证用户
type CartHandler struct {
	svc *application.CartService
}

func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/cart")
	{
		g.GET("", h.GetCart)
		g.POST("/items", h.AddItem)
		g.DELETE("/items/:articleId", h.RemoveItem)
		g.DELETE("", h.EmptyCart)
	}
}

func authUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(middleware.AuthUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	view, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get cart", "user_id", userID, "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

type AddItemRequest struct {
	ArticleID uint `json:"article_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	if err := h.svc.AddItem(c.Request.Context(), userID, req.ArticleID, req.Quantity); err != nil {
		logger.Error(c.Request.Context(), "Failed to add cart item", "user_id", userID, "error", err)
		response.Error(c, err)
		return
	}
	response.Message(c, "item added to cart")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	articleID, err := strconv.ParseUint(c.Param("articleId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}

	view, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if view.CartID == 0 {
		response.Message(c, "item removed from cart")
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), view.CartID, uint(articleID)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "item removed from cart")
}

func (h *CartHandler) EmptyCart(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	if err := h.svc.EmptyCart(c.Request.Context(), userID); err != nil {
		logger.Error(c.Request.Context(), "Failed to empty cart", "user_id", userID, "error", err)
		response.Error(c, err)
		return
	}
	response.Message(c, "cart emptied")
}
