package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/service"
)

// LocationHandler handles HTTP requests for delivery states and locations.
type LocationHandler struct {
	locationService *service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// CreateStateRequest is the HTTP request body for adding a state.
type CreateStateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Code string `json:"code" binding:"max=10"`
}

// CreateLocationRequest is the HTTP request body for adding a location.
type CreateLocationRequest struct {
	StateID     int64           `json:"state_id" binding:"required,gt=0"`
	Name        string          `json:"name" binding:"required,max=200"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

// StateResponse is the HTTP response for a state.
type StateResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// LocationResponse is the HTTP response for a location, with its state nested.
type LocationResponse struct {
	ID          int64         `json:"id"`
	State       StateResponse `json:"state"`
	Name        string        `json:"name"`
	DeliveryFee string        `json:"delivery_fee"`
	IsActive    bool          `json:"is_active"`
}

func toStateResponse(s *domain.State) StateResponse {
	return StateResponse{ID: s.ID, Name: s.Name, Code: s.Code, IsActive: s.IsActive}
}

func toLocationResponse(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID: l.ID,
		State: StateResponse{
			ID:       l.StateID,
			Name:     l.StateName,
			Code:     l.StateCode,
			IsActive: true,
		},
		Name:        l.Name,
		DeliveryFee: l.DeliveryFee.StringFixed(2),
		IsActive:    l.IsActive,
	}
}

// ListStates handles GET /v1/states
func (h *LocationHandler) ListStates(c *gin.Context) {
	states, err := h.locationService.ListStates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StateResponse, 0, len(states))
	for _, s := range states {
		response = append(response, toStateResponse(s))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetState handles GET /v1/states/:id
func (h *LocationHandler) GetState(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	state, err := h.locationService.GetState(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toStateResponse(state))
}

// CreateState handles POST /v1/states
func (h *LocationHandler) CreateState(c *gin.Context) {
	var req CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	state, err := h.locationService.CreateState(c.Request.Context(), principal(c), service.CreateStateRequest{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toStateResponse(state))
}

// ListLocations handles GET /v1/locations?state_id=
func (h *LocationHandler) ListLocations(c *gin.Context) {
	var stateID int64
	if raw := c.Query("state_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, "invalid state_id")
			return
		}
		stateID = id
	}

	locations, err := h.locationService.ListLocations(c.Request.Context(), stateID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LocationResponse, 0, len(locations))
	for _, l := range locations {
		response = append(response, toLocationResponse(l))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetLocation handles GET /v1/locations/:id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	loc, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toLocationResponse(loc))
}

// CreateLocation handles POST /v1/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	loc, err := h.locationService.CreateLocation(c.Request.Context(), principal(c), service.CreateLocationRequest{
		StateID:     req.StateID,
		Name:        req.Name,
		DeliveryFee: req.DeliveryFee,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toLocationResponse(loc))
}
