package matches

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/auth"
	"github.com/saurabh98s/SammySwipe/internal/common/utils"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// GetRecommendations returns the ranked candidate list for the caller.
// An optional limit query parameter truncates the response.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := RecommendationQuery{}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		query.Limit = limit
	}
	if err := utils.ValidateStruct(query); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := h.service.ScoreCandidates(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.Error("recommendations failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get recommendations")
		return
	}

	if query.Limit > 0 && query.Limit < len(candidates) {
		candidates = candidates[:query.Limit]
	}

	utils.RespondWithData(w, http.StatusOK, newRecommendationResponses(candidates))
}

// GetMyMatches lists the caller's accepted matches.
func (h *Handler) GetMyMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	matched, err := h.service.MyMatches(r.Context(), userID)
	if err != nil {
		h.logger.Error("my-matches failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, matched)
}

// GetCompatibility returns the pair breakdown against one user.
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	otherID, ok := pathUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.Compatibility(r.Context(), userID, otherID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute compatibility")
		return
	}

	utils.RespondWithData(w, http.StatusOK, newCompatibilityResponse(otherID, result))
}

// GetStatistics returns the caller's recomputed statistics snapshot.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.service.GetStatistics(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get statistics")
		return
	}

	utils.RespondWithData(w, http.StatusOK, stats)
}

// Like records interest in the target user.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID, ok := pathUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.Like(r.Context(), userID, targetID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to record like")
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	utils.RespondWithData(w, status, result)
}

// Accept marks the caller's like of the target user as accepted.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusAccepted)
}

// Reject marks the caller's like of the target user as rejected.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusRejected)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, status EdgeStatus) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID, ok := pathUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var edge *RelationshipEdge
	var err error
	if status == StatusAccepted {
		edge, err = h.service.Accept(r.Context(), userID, targetID)
	} else {
		edge, err = h.service.Reject(r.Context(), userID, targetID)
	}
	if err != nil {
		h.respondServiceError(w, err, "Failed to update match")
		return
	}

	utils.RespondWithData(w, http.StatusOK, edge)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSelfMatch):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEdgeNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "No like recorded for this user")
	case errors.Is(err, profile.ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
	default:
		h.logger.Error("match operation failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func pathUserID(r *http.Request) (string, bool) {
	id := mux.Vars(r)["userId"]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
