package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/service"
)

type FestivalService interface {
	Create(ctx context.Context, requester domain.User, festival domain.Festival) (domain.Festival, error)
	Update(ctx context.Context, requester domain.User, id uint, update service.FestivalUpdate) (domain.Festival, error)
	AddOrganizers(ctx context.Context, requester domain.User, id uint, usernames []string) (domain.Festival, error)
	AddStaff(ctx context.Context, requester domain.User, id uint, usernames []string) (domain.Festival, error)
	Delete(ctx context.Context, requester domain.User, id uint) error
	StartSubmission(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	StartAssignment(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	StartReview(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	StartScheduling(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	StartFinalSubmission(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	StartDecision(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	Announce(ctx context.Context, requester domain.User, id uint) (domain.Festival, error)
	View(ctx context.Context, requester *domain.User, id uint) (domain.Festival, bool, error)
	Search(ctx context.Context, requester *domain.User, query string) ([]domain.Festival, []bool, error)
}

type FestivalHandler struct {
	svc FestivalService
}

func NewFestivalHandler(svc FestivalService) *FestivalHandler {
	return &FestivalHandler{
		svc: svc,
	}
}

// HandleCreateFestival godoc
// @Summary      Create a festival
// @Tags         festivals
// @Produce      json
// @Param        request   body      request.CreateFestivalRequest true "request body"
// @Success      201      {object}   response.FestivalResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals [post]
func (h *FestivalHandler) HandleCreateFestival(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	var req request.CreateFestivalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	dates, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	festival, err := h.svc.Create(ctx.Request.Context(), *requester, domain.Festival{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Dates:       dates,
	})
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, response.NewFestivalResponse(festival, true))
}

// HandleGetFestival godoc
// @Summary      View one festival
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID} [get]
func (h *FestivalHandler) HandleGetFestival(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	festival, detailed, err := h.svc.View(ctx.Request.Context(), middleware.RequesterFrom(ctx), id)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewFestivalResponse(festival, detailed))
}

// HandleSearchFestivals godoc
// @Summary      Search festivals by name, venue or date
// @Tags         festivals
// @Produce      json
// @Param        q   query      string false "search words"
// @Success      200 {object}   []response.FestivalResponse
// @Failure      500 {object}   response.Err
// @Router       /festivals [get]
func (h *FestivalHandler) HandleSearchFestivals(ctx *gin.Context) {
	festivals, detailed, err := h.svc.Search(ctx.Request.Context(), middleware.RequesterFrom(ctx), ctx.Query("q"))
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewFestivalListResponse(festivals, detailed))
}

// HandleUpdateFestival godoc
// @Summary      Update festival fields and role rosters
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Param        request      body      request.UpdateFestivalRequest true "request body"
// @Success      200         {object}   response.FestivalResponse
// @Failure      400         {object}   response.Err
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      409         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID} [put]
func (h *FestivalHandler) HandleUpdateFestival(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	var req request.UpdateFestivalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	dates, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	festival, err := h.svc.Update(ctx.Request.Context(), *requester, id, service.FestivalUpdate{
		Name:             req.Name,
		Description:      req.Description,
		Venue:            req.Venue,
		Dates:            dates,
		VenueLayout:      req.VenueLayout,
		Budget:           req.Budget,
		VendorManagement: req.VendorManagement,
		Organizers:       req.Organizers,
		Staff:            req.Staff,
	})
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewFestivalResponse(festival, true))
}

// HandleDeleteFestival godoc
// @Summary      Delete a festival still in the created phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      204
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID} [delete]
func (h *FestivalHandler) HandleDeleteFestival(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), *requester, id); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddOrganizers godoc
// @Summary      Grant the organizer role to users
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Param        request      body      request.AddUsersRequest true "request body"
// @Success      200         {object}   response.FestivalResponse
// @Failure      400         {object}   response.Err
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/organizers [post]
func (h *FestivalHandler) HandleAddOrganizers(ctx *gin.Context) {
	h.addRoles(ctx, h.svc.AddOrganizers)
}

// HandleAddStaff godoc
// @Summary      Grant the staff role to users
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Param        request      body      request.AddUsersRequest true "request body"
// @Success      200         {object}   response.FestivalResponse
// @Failure      400         {object}   response.Err
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/staff [post]
func (h *FestivalHandler) HandleAddStaff(ctx *gin.Context) {
	h.addRoles(ctx, h.svc.AddStaff)
}

// HandleStartSubmission godoc
// @Summary      Open the submission phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-submission [post]
func (h *FestivalHandler) HandleStartSubmission(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartSubmission)
}

// HandleStartAssignment godoc
// @Summary      Open the stage manager assignment phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-assignment [post]
func (h *FestivalHandler) HandleStartAssignment(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartAssignment)
}

// HandleStartReview godoc
// @Summary      Open the review phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-review [post]
func (h *FestivalHandler) HandleStartReview(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartReview)
}

// HandleStartScheduling godoc
// @Summary      Open the scheduling phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-scheduling [post]
func (h *FestivalHandler) HandleStartScheduling(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartScheduling)
}

// HandleStartFinalSubmission godoc
// @Summary      Open the final submission phase
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-final-submission [post]
func (h *FestivalHandler) HandleStartFinalSubmission(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartFinalSubmission)
}

// HandleStartDecision godoc
// @Summary      Open the decision phase, auto-rejecting performances without a final submission
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/start-decision [post]
func (h *FestivalHandler) HandleStartDecision(ctx *gin.Context) {
	h.advance(ctx, h.svc.StartDecision)
}

// HandleAnnounce godoc
// @Summary      Announce the festival lineup
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Success      200         {object}   response.FestivalResponse
// @Failure      403         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/announce [post]
func (h *FestivalHandler) HandleAnnounce(ctx *gin.Context) {
	h.advance(ctx, h.svc.Announce)
}

func (h *FestivalHandler) advance(ctx *gin.Context, fn func(context.Context, domain.User, uint) (domain.Festival, error)) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	festival, err := fn(ctx.Request.Context(), *requester, id)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewFestivalResponse(festival, true))
}

func (h *FestivalHandler) addRoles(ctx *gin.Context, fn func(context.Context, domain.User, uint, []string) (domain.Festival, error)) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	var req request.AddUsersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	festival, err := fn(ctx.Request.Context(), *requester, id, req.Usernames)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewFestivalResponse(festival, true))
}
