package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/internal/catalog/application"
	"github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/response"
)

// ArticleHandler 商品 HTTP 处理器
type ArticleHandler struct {
	svc *application.ArticleService
}

func NewArticleHandler(svc *application.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// RegisterRoutes 注册公开读路由
func (h *ArticleHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/articles")
	{
		g.GET("", h.List)
		g.GET("/search", h.Search)
		g.GET("/top-sold", h.TopSold)
		g.GET("/filters", h.Filters)
		g.GET("/:id", h.Get)
	}
}

// RegisterAdminRoutes 注册管理写路由
func (h *ArticleHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/articles")
	{
		g.POST("", h.Create)
		g.POST("/full", h.CreateFull)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

// ArticleRequest 创建/更新商品请求
type ArticleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       *int    `json:"stock" binding:"required,gte=0"`
	Category    string  `json:"category"`
}

func (r *ArticleRequest) toCommand() application.CreateArticleCommand {
	return application.CreateArticleCommand{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       *r.Stock,
		Category:    r.Category,
	}
}

func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list articles", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, articles)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	article, err := h.svc.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	article, err := h.svc.Create(c.Request.Context(), req.toCommand())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create article", "error", err)
		response.Error(c, err)
		return
	}
	response.Created(c, article)
}

// CreateFullRequest 创建商品及内嵌特征/图片请求
type CreateFullRequest struct {
	Article         ArticleRequest `json:"article" binding:"required"`
	Characteristics []struct {
		CharacteristicID uint   `json:"characteristic_id"`
		Value            string `json:"value"`
	} `json:"characteristics"`
	Images []struct {
		Data        string `json:"data"`
		Description string `json:"description"`
		SortOrder   int    `json:"sort_order"`
	} `json:"images"`
}

func (h *ArticleHandler) CreateFull(c *gin.Context) {
	var req CreateFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}

	characteristics := make([]application.NestedCharacteristic, 0, len(req.Characteristics))
	for _, nc := range req.Characteristics {
		characteristics = append(characteristics, application.NestedCharacteristic{
			CharacteristicID: nc.CharacteristicID,
			Value:            nc.Value,
		})
	}
	images := make([]application.NestedImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, application.NestedImage{
			Data:        img.Data,
			Description: img.Description,
			SortOrder:   img.SortOrder,
		})
	}

	article, err := h.svc.CreateFull(c.Request.Context(), req.Article.toCommand(), characteristics, images)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create full article", "error", err)
		response.Error(c, err)
		return
	}
	response.Created(c, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err.Error())
		return
	}
	if err := h.svc.Update(c.Request.Context(), uint(id), req.toCommand()); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "article updated")
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, 400, "invalid article id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "article deleted")
}

func (h *ArticleHandler) Search(c *gin.Context) {
	filter := domain.SearchFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
	}
	if v := c.Query("price_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.ErrorWithStatus(c, 400, "invalid price_min")
			return
		}
		filter.PriceMin = &min
	}
	if v := c.Query("price_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.ErrorWithStatus(c, 400, "invalid price_max")
			return
		}
		filter.PriceMax = &max
	}

	articles, err := h.svc.Search(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to search articles", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, articles)
}

func (h *ArticleHandler) TopSold(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.ErrorWithStatus(c, 400, "invalid limit")
			return
		}
		limit = parsed
	}
	rows, err := h.svc.TopSold(c.Request.Context(), limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get top sold articles", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

func (h *ArticleHandler) Filters(c *gin.Context) {
	summary, err := h.svc.CategoriesAndPriceRange(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get category summary", "error", err)
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
