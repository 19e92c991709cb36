package itinerary

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PurpleDrip/Travel-Planner/internal/app/domain/auth"
	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
)

type ItineraryHandlers struct {
	service ItineraryService
	logger  *zap.Logger
}

func NewItineraryHandlers(service ItineraryService, logger *zap.Logger) *ItineraryHandlers {
	return &ItineraryHandlers{
		service: service,
		logger:  logger,
	}
}

// GenerateItinerary handles POST /api/itineraries/generate.
func (h *ItineraryHandlers) GenerateItinerary(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req CreateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid generate request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	itin, err := h.service.CreateItinerary(c.Request.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrGenerationFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary. Please try again."})
		default:
			h.logger.Error("Itinerary creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, itin)
}

// ListItineraries handles GET /api/itineraries/list.
func (h *ItineraryHandlers) ListItineraries(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	itineraries, err := h.service.ListItineraries(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, itineraries)
}

// GetItinerary handles GET /api/itineraries/:id.
func (h *ItineraryHandlers) GetItinerary(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.itineraryID(c)
	if !ok {
		return
	}

	itin, err := h.service.GetItinerary(c.Request.Context(), ownerID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, itin)
}

// UpdateItinerary handles PUT /api/itineraries/:id.
func (h *ItineraryHandlers) UpdateItinerary(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.itineraryID(c)
	if !ok {
		return
	}

	var req UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid update request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	itin, err := h.service.UpdateItinerary(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, itin)
}

// DeleteItinerary handles DELETE /api/itineraries/:id.
func (h *ItineraryHandlers) DeleteItinerary(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.itineraryID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteItinerary(c.Request.Context(), ownerID, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Itinerary deleted successfully"})
}

// ExportItineraryPDF handles GET /api/itineraries/:id/pdf.
func (h *ItineraryHandlers) ExportItineraryPDF(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.itineraryID(c)
	if !ok {
		return
	}

	itin, err := h.service.GetItinerary(c.Request.Context(), ownerID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	buf, err := RenderPDF(itin)
	if err != nil {
		h.logger.Error("Failed to render itinerary PDF", zap.Error(err), zap.String("id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="itinerary-`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ItineraryHandlers) ownerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.logger.Warn("Invalid user ID in token", zap.String("userID", userIDStr))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return uuid.Nil, false
	}
	return userID, true
}

func (h *ItineraryHandlers) itineraryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids behave like missing records, matching the
		// ownership rule: no existence information leaks.
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		c.Abort()
		return uuid.Nil, false
	}
	return id, true
}

func (h *ItineraryHandlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Itinerary request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
