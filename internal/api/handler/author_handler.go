package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blogsmith/internal/api/middleware"
	"github.com/d60-Lab/blogsmith/internal/service"
	"github.com/d60-Lab/blogsmith/pkg/response"
)

// SearchAuthors 按名字子串查作者目录
// @Summary 作者搜索
// @Tags 作者
// @Produce json
// @Param search query string false "名字子串（大小写不敏感）"
// @Success 200 {object} response.Response{data=[]model.AuthorRef}
// @Router /api/author [get]
func (h *Handler) SearchAuthors(c *gin.Context) {
	refs, err := h.authorService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, refs)
}

// FollowAuthor 关注作者（幂等）
// @Summary 关注作者
// @Tags 作者
// @Produce json
// @Security BearerAuth
// @Param id path string true "作者 ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/author/{id}/follow [post]
func (h *Handler) FollowAuthor(c *gin.Context) {
	err := h.followService.Follow(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFollowSelf) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// FollowingStatus 查询是否已关注该作者
// @Summary 关注状态
// @Tags 作者
// @Produce json
// @Security BearerAuth
// @Param id path string true "作者 ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Router /api/author/{id}/follow [get]
func (h *Handler) FollowingStatus(c *gin.Context) {
	following, err := h.followService.IsFollowing(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"following": following})
}

// UnfollowAuthor 取消关注
// @Summary 取消关注
// @Tags 作者
// @Produce json
// @Security BearerAuth
// @Param id path string true "作者 ID"
// @Success 200 {object} response.Response
// @Router /api/author/{id}/follow [delete]
func (h *Handler) UnfollowAuthor(c *gin.Context) {
	if err := h.followService.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowers 作者的粉丝列表
// @Summary 粉丝列表
// @Tags 作者
// @Produce json
// @Param id path string true "作者 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/author/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	refs, err := h.followService.Followers(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": refs})
}
