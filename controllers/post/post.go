package controllers

import (
	"errors"
	"strconv"
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// CreatePost creates a blog post (admin only)
func CreatePost(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedPost").(*struct {
		Title      string `json:"title"`
		Body       string `json:"body"`
		CoverImage string `json:"cover_image"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	slug := slugify(reqData.Title)

	post := models.Post{
		AuthorID:   userId,
		Title:      reqData.Title,
		Slug:       slug,
		Body:       reqData.Body,
		CoverImage: reqData.CoverImage,
	}

	if err := database.Database.Db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Retry once with the author id appended to the slug
			post.Slug = slug + "-" + strconv.FormatUint(uint64(userId), 10)
			if err := database.Database.Db.Create(&post).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "A post with this title already exists!", nil)
			}
		} else {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Post created successfully!", post)
}

// UpdatePost updates a blog post (admin only)
func UpdatePost(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	postID := c.Locals("postID").(int)

	var post models.Post
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	reqData, ok := c.Locals("validatedPostUpdate").(*struct {
		Title       string `json:"title"`
		Body        string `json:"body"`
		CoverImage  string `json:"cover_image"`
		IsPublished *bool  `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		post.Title = reqData.Title
	}
	if reqData.Body != "" {
		post.Body = reqData.Body
	}
	if reqData.CoverImage != "" {
		post.CoverImage = reqData.CoverImage
	}
	if reqData.IsPublished != nil {
		post.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post updated successfully!", post)
}

// DeletePost soft deletes a blog post (admin only)
func DeletePost(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	postID := c.Locals("postID").(int)

	var post models.Post
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", postID, false).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	post.IsDeleted = true
	if err := database.Database.Db.Save(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete post!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post deleted successfully!", nil)
}

// GetAllPosts lists published blog posts
func GetAllPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var posts []models.Post
	var total int64

	db := database.Database.Db.Model(&models.Post{}).Where("is_deleted = ? AND is_published = ?", false, true)
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&posts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Posts fetched successfully!", fiber.Map{
		"posts": posts,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetPostBySlug fetches a published post by its slug
func GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.Post
	if err := database.Database.Db.Where("slug = ? AND is_deleted = ? AND is_published = ?", slug, false, true).First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Post not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Post fetched successfully!", post)
}
