package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blogsmith/internal/api/middleware"
	"github.com/d60-Lab/blogsmith/internal/service"
	"github.com/d60-Lab/blogsmith/pkg/response"
)

type postRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Category   string   `json:"category" binding:"omitempty,category"`
	Status     string   `json:"status" binding:"omitempty,oneof=draft published"`
}

func (r postRequest) input() service.PostInput {
	return service.PostInput{
		Title:      r.Title,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Tags:       r.Tags,
		Category:   r.Category,
		Status:     r.Status,
	}
}

// CreatePost 新建文章（缺省 draft）
// @Summary 新建文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "文章内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		h.postError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 文章详情
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	detail, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.postError(c, err)
		return
	}
	response.Success(c, detail)
}

// ListMyPosts 本人文章清单（含草稿）
// @Summary 我的文章
// @Tags 文章
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Post}
// @Failure 401 {object} response.Response
// @Router /api/me/posts [get]
func (h *Handler) ListMyPosts(c *gin.Context) {
	posts, err := h.postService.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// UpdatePost 编辑文章（仅作者本人）
// @Summary 编辑文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章 ID"
// @Param request body postRequest true "文章内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.input())
	if err != nil {
		h.postError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章（仅作者本人）
// @Summary 删除文章
// @Tags 文章
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.postError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleLike 点赞切换：不在集合加入返回 liked=true，在集合移除返回 liked=false
// @Summary 点赞切换
// @Tags 文章
// @Produce json
// @Security BearerAuth
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id}/like [patch]
func (h *Handler) ToggleLike(c *gin.Context) {
	liked, err := h.postService.ToggleLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.postError(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}

func (h *Handler) postError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
