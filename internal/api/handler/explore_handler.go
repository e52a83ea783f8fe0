package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blogsmith/internal/api/middleware"
	"github.com/d60-Lab/blogsmith/internal/service"
	"github.com/d60-Lab/blogsmith/pkg/response"
)

// PublicExplore 公共发现流
// @Summary 公共发现流（已发布文章）
// @Tags 发现
// @Produce json
// @Param search query string false "标题/标签/作者名子串"
// @Param category query string false "分类精确匹配"
// @Param sort query string false "recent 或 popular" default(recent)
// @Param page query int false "页码，从 1 起" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]service.PostCard}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/explore/public [get]
func (h *Handler) PublicExplore(c *gin.Context) {
	h.explore(c, "")
}

// PrivateExplore 私有发现流，排除请求者自己的文章
// @Summary 私有发现流（排除本人文章）
// @Tags 发现
// @Produce json
// @Security BearerAuth
// @Param search query string false "标题/标签/作者名子串"
// @Param category query string false "分类精确匹配"
// @Param sort query string false "recent 或 popular" default(recent)
// @Param page query int false "页码，从 1 起" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]service.PostCard}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/explore/private [get]
func (h *Handler) PrivateExplore(c *gin.Context) {
	h.explore(c, middleware.UserID(c))
}

func (h *Handler) explore(c *gin.Context, requesterID string) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.BadRequest(c, "page must be an integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		response.BadRequest(c, "limit must be an integer")
		return
	}

	q := service.FeedQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.DefaultQuery("sort", "recent"),
		Page:     page,
		Limit:    limit,
	}

	cards, err := h.exploreService.Explore(c.Request.Context(), q, requesterID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) || errors.Is(err, service.ErrInvalidLimit) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, cards)
}
