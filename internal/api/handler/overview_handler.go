package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blogsmith/internal/api/middleware"
	"github.com/d60-Lab/blogsmith/pkg/response"
)

// Overview 仪表盘总览
// @Summary 作者总览统计
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.OverviewStats}
// @Router /api/overview/me/overview [get]
func (h *Handler) Overview(c *gin.Context) {
	stats, err := h.overviewService.Overview(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// TopBlogs 点赞数前五的已发布文章
// @Summary 热门文章 Top5
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.TopBlog}
// @Router /api/overview/me/top-blogs [get]
func (h *Handler) TopBlogs(c *gin.Context) {
	top, err := h.overviewService.TopBlogs(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, top)
}

// CategoryStats 分类分布
// @Summary 分类分布
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.CategoryStat}
// @Router /api/overview/me/category-stats [get]
func (h *Handler) CategoryStats(c *gin.Context) {
	stats, err := h.overviewService.CategoryStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// Trends 近六个月发文趋势
// @Summary 发文趋势
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.TrendPoint}
// @Router /api/overview/me/trends [get]
func (h *Handler) Trends(c *gin.Context) {
	points, err := h.overviewService.Trends(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, points)
}

// StaleDrafts 搁置草稿
// @Summary 搁置草稿
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.StaleDraft}
// @Router /api/overview/me/stale-drafts [get]
func (h *Handler) StaleDrafts(c *gin.Context) {
	drafts, err := h.overviewService.StaleDrafts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, drafts)
}

// WordStats 字数统计
// @Summary 字数统计
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.WordStats}
// @Router /api/overview/me/word-stats [get]
func (h *Handler) WordStats(c *gin.Context) {
	stats, err := h.overviewService.WordStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}
