package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pictu/api/internal/models"
	"pictu/api/internal/service"
)

type collectionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPrivate   bool      `json:"isPrivate"`
	ImageIDs    []string  `json:"imageIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCollectionResponse(collection models.Collection) collectionResponse {
	imageIDs := collection.ImageIDs
	if imageIDs == nil {
		imageIDs = []string{}
	}
	return collectionResponse{
		ID:          collection.ID,
		UserID:      collection.UserID,
		Title:       collection.Title,
		Description: collection.Description,
		IsPrivate:   collection.IsPrivate,
		ImageIDs:    imageIDs,
		CreatedAt:   collection.CreatedAt,
		UpdatedAt:   collection.UpdatedAt,
	}
}

func (h HandlerSet) ListCollections(c *gin.Context) {
	collections, err := h.collectionService.ListVisible(c.Request.Context(), optionalUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]collectionResponse, 0, len(collections))
	for _, collection := range collections {
		resp = append(resp, newCollectionResponse(collection))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetCollection(c *gin.Context) {
	collection, err := h.collectionService.GetOne(c.Request.Context(), c.Param("id"), optionalUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCollectionResponse(collection))
}

type createCollectionRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	IsPrivate   *models.FlexibleBool `json:"is_private"`
}

func (h HandlerSet) CreateCollection(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), service.CreateCollectionInput{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   flexibleToBool(req.IsPrivate),
	}, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCollectionResponse(collection))
}

type updateCollectionRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	IsPrivate   *models.FlexibleBool `json:"is_private"`
}

func (h HandlerSet) UpdateCollection(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.Update(c.Request.Context(), c.Param("id"), service.UpdateCollectionInput{
		Title:       req.Title,
		Description: req.Description,
		IsPrivate:   flexibleToBool(req.IsPrivate),
	}, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCollectionResponse(collection))
}

type membershipRequest struct {
	AddImageIDs    []string `json:"addImageIds"`
	RemoveImageIDs []string `json:"removeImageIds"`
}

func (h HandlerSet) UpdateCollectionImages(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.UpdateMembership(c.Request.Context(), c.Param("id"), service.MembershipInput{
		AddImageIDs:    req.AddImageIDs,
		RemoveImageIDs: req.RemoveImageIDs,
	}, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCollectionResponse(collection))
}

func (h HandlerSet) DeleteCollection(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.collectionService.Remove(c.Request.Context(), c.Param("id"), user); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
