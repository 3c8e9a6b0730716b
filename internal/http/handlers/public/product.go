package public

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/woodnest/woodnest/internal/cache"
	handlershared "github.com/woodnest/woodnest/internal/http/handlers/shared"
	"github.com/woodnest/woodnest/internal/http/response"
	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	productCacheKeyPrefix = "public:product:"
	productCacheTTL       = 60 * time.Second
)

// ListProducts 商品列表（仅上架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			categoryID = uint(parsed)
		}
	}

	products, total, err := h.ProductRepo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 按 slug 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, http.StatusBadRequest, "invalid product slug", nil)
		return
	}

	cacheKey := productCacheKeyPrefix + slug
	var cached models.Product
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	product, err := h.ProductRepo.GetBySlug(slug, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load product", err)
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "product not found", nil)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), cacheKey, product, productCacheTTL)
	response.Success(c, product)
}
