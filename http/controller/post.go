package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/http/controller/dto"
	"github.com/aperturelog/aperture/utils"
)

func (ctrl *Controller) ListPosts(c *gin.Context) {
	posts, err := ctrl.Repository.PostRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Post] Failed to list posts")
		utils.JSON500(c, "Failed to list posts")
		return
	}
	utils.JSON200(c, posts)
}

func (ctrl *Controller) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := ctrl.Repository.PostRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Post not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Post] Failed to load post %q", slug)
		utils.JSON500(c, "Failed to load post")
		return
	}

	utils.JSON200(c, post)
}

func (ctrl *Controller) CheckSlug(c *gin.Context) {
	slug := c.Param("slug")

	exists, err := ctrl.Repository.PostRepo.SlugExists(slug)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Post] Failed to check slug %q", slug)
		utils.JSON500(c, "Failed to check slug")
		return
	}

	utils.JSON200(c, gin.H{"exists": exists})
}

func (ctrl *Controller) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid post payload: "+err.Error())
		return
	}

	exists, err := ctrl.Repository.PostRepo.SlugExists(req.Slug)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Post] Failed to check slug %q", req.Slug)
		utils.JSON500(c, "Failed to create post")
		return
	}
	if exists {
		utils.JSON409(c, "A post with this slug already exists")
		return
	}

	post := req.ToEntity()
	if err := ctrl.Repository.PostRepo.Create(post); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Post] Failed to create post %q", req.Slug)
		utils.JSON500(c, "Failed to create post")
		return
	}

	utils.JSON201(c, post)
}

func (ctrl *Controller) UpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid post payload: "+err.Error())
		return
	}

	updates := req.Updates()
	if len(updates) == 0 {
		utils.JSON400(c, "No fields to update")
		return
	}

	post, err := ctrl.Repository.PostRepo.UpdateBySlug(slug, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Post not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Post] Failed to update post %q", slug)
		utils.JSON500(c, "Failed to update post")
		return
	}

	utils.JSON200(c, post)
}

func (ctrl *Controller) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	if err := ctrl.Repository.PostRepo.DeleteBySlug(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Post not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Post] Failed to delete post %q", slug)
		utils.JSON500(c, "Failed to delete post")
		return
	}

	utils.JSON200(c, gin.H{"message": "Post deleted"})
}
