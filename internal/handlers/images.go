package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pictu/api/internal/models"
	"pictu/api/internal/service"
)

// imageResponse exposes the public URL but never the raw object key.
type imageResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	IsApproved  bool      `json:"isApproved"`
	IsPrivate   bool      `json:"isPrivate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newImageResponse(image models.Image) imageResponse {
	return imageResponse{
		ID:          image.ID,
		UserID:      image.UserID,
		Title:       image.Title,
		Description: image.Description,
		URL:         image.URL,
		MimeType:    image.MimeType,
		SizeBytes:   image.SizeBytes,
		IsApproved:  image.IsApproved,
		IsPrivate:   image.IsPrivate,
		CreatedAt:   image.CreatedAt,
		UpdatedAt:   image.UpdatedAt,
	}
}

func (h HandlerSet) ListImages(c *gin.Context) {
	images, err := h.imageService.ListPublic(c.Request.Context(), optionalUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]imageResponse, 0, len(images))
	for _, image := range images {
		resp = append(resp, newImageResponse(image))
	}
	c.JSON(http.StatusOK, resp)
}

// ListPendingImages is the moderation queue, admin only.
func (h HandlerSet) ListPendingImages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	images, err := h.imageService.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]imageResponse, 0, len(images))
	for _, image := range images {
		resp = append(resp, newImageResponse(image))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetImage(c *gin.Context) {
	image, err := h.imageService.GetOne(c.Request.Context(), c.Param("id"), optionalUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newImageResponse(image))
}

func (h HandlerSet) UploadImage(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	image, err := h.imageService.Upload(c.Request.Context(), service.UploadInput{
		Owner:       user,
		File:        file,
		Header:      header,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		IsPrivate:   c.PostForm("is_private") == "true",
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newImageResponse(image))
}

type updateImageRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	IsPrivate   *models.FlexibleBool `json:"is_private"`
}

func (h HandlerSet) UpdateImage(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req updateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.imageService.Update(c.Request.Context(), c.Param("id"), service.UpdateImageInput{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   flexibleToBool(req.IsPrivate),
	}, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newImageResponse(image))
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.imageService.Remove(c.Request.Context(), c.Param("id"), user); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type approveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h HandlerSet) ApproveImage(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.imageService.Approve(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newImageResponse(image))
}

func (h HandlerSet) SignedURL(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	url, err := h.imageService.SignedURL(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func flexibleToBool(v *models.FlexibleBool) *bool {
	if v == nil {
		return nil
	}
	b := bool(*v)
	return &b
}
