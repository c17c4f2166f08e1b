package handler

import (
	"encoding/json"
	"net/http"

	"safarivista/internal/reviews/service"
	"safarivista/pkg/auth"
	httputil "safarivista/pkg/http"
	"safarivista/pkg/logger"
	"safarivista/pkg/middleware"
	"safarivista/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReviewHandler struct {
	service service.ReviewService
	authn   *middleware.Authenticator
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, authn *middleware.Authenticator, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		authn:   authn,
		log:     log,
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := auth.FromContext(r.Context())

	var input model.ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badBody(w, "Create")
		return
	}

	review, err := h.service.Create(r.Context(), caller, ps.ByName("tourId"), &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) GetByTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetByTour", err)
		return
	}

	reviews, total, err := h.service.GetByTour(r.Context(), ps.ByName("tourId"), limit, offset)
	if err != nil {
		h.writeError(w, "GetByTour", err)
		return
	}

	if err := httputil.WritePaginated(w, reviews, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByTour", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	review, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := auth.FromContext(r.Context())

	var updates model.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.badBody(w, "Update")
		return
	}

	review, err := h.service.Update(r.Context(), ps.ByName("id"), caller, &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := auth.FromContext(r.Context())

	if err := h.service.Delete(r.Context(), ps.ByName("id"), caller); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReviewHandler) ToggleHelpful(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := auth.FromContext(r.Context())

	review, marked, err := h.service.ToggleHelpful(r.Context(), ps.ByName("id"), caller)
	if err != nil {
		h.writeError(w, "ToggleHelpful", err)
		return
	}
	h.log.Debug("Helpful mark toggled", "id", review.ID, "user_id", caller.UserID, "marked", marked)

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "ToggleHelpful", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := auth.FromContext(r.Context())

	var input model.ReviewResponseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badBody(w, "Respond")
		return
	}

	review, err := h.service.Respond(r.Context(), ps.ByName("id"), caller, &input)
	if err != nil {
		h.writeError(w, "Respond", err)
		return
	}

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "Respond", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReviewHandler) badBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reviews/tour/:tourId", h.GetByTour)
	router.POST("/api/v1/reviews/tour/:tourId", h.authn.Require(h.Create))
	router.GET("/api/v1/reviews/id/:id", h.GetByID)
	router.PATCH("/api/v1/reviews/id/:id", h.authn.Require(h.Update))
	router.DELETE("/api/v1/reviews/id/:id", h.authn.Require(h.Delete))
	router.PATCH("/api/v1/reviews/id/:id/helpful", h.authn.Require(h.ToggleHelpful))
	router.PATCH("/api/v1/reviews/id/:id/respond", h.authn.RequireRole(h.Respond, auth.RoleAdmin, auth.RoleLeadGuide))
}
