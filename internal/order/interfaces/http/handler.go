package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/internal/order/application"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/middleware"
	"github.com/wyfcoding/catalogmarket/pkg/response"
)

// OrderHandler 订单 HTTP 处理器，所有路由要求已认证用户
type OrderHandler struct {
	svc *application.OrderService
}

func NewOrderHandler(svc *application.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/orders")
	{
		g.POST("", h.Checkout)
		g.GET("", h.ListMine)
		g.GET("/:id", h.Get)
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

// Checkout 将当前购物车转换为订单
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	result, err := h.svc.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Checkout failed", "user_id", userID, "error", err)
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	orders, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		response.ErrorWithStatus(c, 401, "authentication required")
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid order id")
		return
	}
	detail, err := h.svc.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		response.Error(c, err)
		return
	}
	// 普通用户只能查看自己的订单
	if detail.Order.UserID != userID {
		response.ErrorWithStatus(c, 404, "order not found")
		return
	}
	response.Success(c, detail)
}
