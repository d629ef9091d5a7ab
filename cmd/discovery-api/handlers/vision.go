package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// ProductDetector identifies a catalog product from an image, typically
// queryfix.Detector.
type ProductDetector interface {
	DetectProduct(ctx context.Context, imageData string) (string, error)
}

// VisionHandler serves image-based product search.
type VisionHandler struct {
	logger   *observability.Logger
	detector ProductDetector
}

// NewVisionHandler creates a vision handler.
func NewVisionHandler(logger *observability.Logger, detector ProductDetector) *VisionHandler {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &VisionHandler{logger: logger, detector: detector}
}

type visionRequest struct {
	Image string `json:"image"`
}

type visionResponse struct {
	ProductName string `json:"product_name"`
}

// Search handles POST /api/vision/search. The body carries an image as a
// URL, data URL, or raw base64; the response names the matched product.
func (h *VisionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req visionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required", "")
		return
	}

	name, err := h.detector.DetectProduct(r.Context(), req.Image)
	if err != nil {
		h.logger.Warn().Err(err).Msg("image search found no product")
		writeError(w, http.StatusNotFound, "no product recognized", err.Error())
		return
	}

	h.logger.Info().Str("product", name).Msg("image search served")
	writeJSON(w, http.StatusOK, visionResponse{ProductName: name})
}
