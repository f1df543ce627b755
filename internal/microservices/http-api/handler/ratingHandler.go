package handler

import (
	"context"
	"net/http"
	"strconv"

	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes. writes guards the
// create and update endpoints (rate limiting).
func (h *RatingHandler) RegisterRoutes(public, protected *gin.RouterGroup, writes ...gin.HandlerFunc) {
	// Public aggregate
	public.GET("/posts/:post_id/ratings/averages", h.GetAverages)

	ratings := protected.Group("/ratings")
	{
		ratings.GET("", h.GetMine)
		ratings.POST("", chain(writes, h.Create)...)
		ratings.PUT("/:id", chain(writes, h.Update)...)
		ratings.PATCH("/:id", chain(writes, h.Update)...)
	}
}

// Create rates a post
// POST /api/ratings
func (h *RatingHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rating, err := h.ratingService.CreateRating(ctx, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToRatingResponse(rating, service.EditWindow))
}

// Update changes some or all aspects of the caller's rating. Fields other
// than the five aspects are rejected.
// PUT|PATCH /api/ratings/:id
func (h *RatingHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ratingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch, unknown, err := dto.ParseRatingPatch(body)
	if err != nil {
		respondBindError(c, err)
		return
	}
	if len(unknown) > 0 {
		fields := make(map[string]string, len(unknown))
		for _, f := range unknown {
			fields[f] = "unknown field"
		}
		respondError(c, service.NewValidationError(fields))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rating, err := h.ratingService.UpdateRating(ctx, ratingID, userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating, service.EditWindow))
}

// GetMine tells the caller whether they rated a post, and how.
// GET /api/ratings?post_id=
func (h *RatingHandler) GetMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	postID, err := strconv.ParseInt(c.Query("post_id"), 10, 64)
	if err != nil || postID < 1 {
		respondError(c, service.NewValidationError(map[string]string{"post_id": "a valid post id is required"}))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rating, err := h.ratingService.GetRatingFor(ctx, postID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.RatingLookupResponse{Rated: rating != nil}
	if rating != nil {
		resp.Rating = dto.FromModelToRatingResponse(rating, service.EditWindow)
	}
	c.JSON(http.StatusOK, resp)
}

// GetAverages returns the public rating statistics of a post
// GET /api/posts/:post_id/ratings/averages
func (h *RatingHandler) GetAverages(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.ratingService.GetPostAverages(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
