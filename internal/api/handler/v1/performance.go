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

type PerformanceService interface {
	Create(ctx context.Context, requester domain.User, festivalID uint, input service.PerformanceCreate) (domain.Performance, error)
	Update(ctx context.Context, requester domain.User, id uint, update service.PerformanceUpdate) (domain.Performance, error)
	AddBandMember(ctx context.Context, requester domain.User, id uint, username string) (domain.Performance, error)
	Submit(ctx context.Context, requester domain.User, id uint) (domain.Performance, error)
	Withdraw(ctx context.Context, requester domain.User, id uint) error
	AssignStageManager(ctx context.Context, requester domain.User, id uint, username string) (domain.Performance, error)
	Review(ctx context.Context, requester domain.User, id uint, score float64, comments string) (domain.Performance, error)
	Approve(ctx context.Context, requester domain.User, id uint) (domain.Performance, error)
	Reject(ctx context.Context, requester domain.User, id uint, reason string) (domain.Performance, error)
	FinalSubmit(ctx context.Context, requester domain.User, id uint, setlist, rehearsalTimes, slots []string) (domain.Performance, error)
	Accept(ctx context.Context, requester domain.User, id uint) (domain.Performance, error)
	View(ctx context.Context, requester *domain.User, id uint) (domain.Performance, bool, error)
	Search(ctx context.Context, requester *domain.User, query string) ([]domain.Performance, []bool, error)
}

type PerformanceHandler struct {
	svc PerformanceService
}

func NewPerformanceHandler(svc PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{
		svc: svc,
	}
}

// HandleCreatePerformance godoc
// @Summary      Create a performance under a festival
// @Tags         performances
// @Produce      json
// @Param        festivalID   path      int true "festival ID"
// @Param        request      body      request.CreatePerformanceRequest true "request body"
// @Success      201         {object}   response.PerformanceResponse
// @Failure      400         {object}   response.Err
// @Failure      404         {object}   response.Err
// @Failure      409         {object}   response.Err
// @Failure      500         {object}   response.Err
// @Router       /festivals/{festivalID}/performances [post]
func (h *PerformanceHandler) HandleCreatePerformance(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	festivalID, ok := parseIDParam(ctx, "festivalID")
	if !ok {
		return
	}

	var req request.CreatePerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.Create(ctx.Request.Context(), *requester, festivalID, service.PerformanceCreate{
		Name:                      req.Name,
		Description:               req.Description,
		Genre:                     req.Genre,
		Duration:                  req.Duration,
		BandMembers:               req.BandMembers,
		TechnicalRequirement:      req.TechnicalRequirement,
		Setlist:                   req.Setlist,
		MerchandiseItems:          req.MerchandiseItems,
		PreferredRehearsalTimes:   req.PreferredRehearsalTimes,
		PreferredPerformanceSlots: req.PreferredPerformanceSlots,
	})
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, response.NewPerformanceResponse(performance, true))
}

// HandleGetPerformance godoc
// @Summary      View one performance
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID} [get]
func (h *PerformanceHandler) HandleGetPerformance(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	performance, detailed, err := h.svc.View(ctx.Request.Context(), middleware.RequesterFrom(ctx), id)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, detailed))
}

// HandleSearchPerformances godoc
// @Summary      Search performances by name, genre or artist
// @Tags         performances
// @Produce      json
// @Param        q   query      string false "search words"
// @Success      200 {object}   []response.PerformanceResponse
// @Failure      500 {object}   response.Err
// @Router       /performances [get]
func (h *PerformanceHandler) HandleSearchPerformances(ctx *gin.Context) {
	performances, detailed, err := h.svc.Search(ctx.Request.Context(), middleware.RequesterFrom(ctx), ctx.Query("q"))
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceListResponse(performances, detailed))
}

// HandleUpdatePerformance godoc
// @Summary      Update an unsubmitted performance (creator only)
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.UpdatePerformanceRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      409            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID} [put]
func (h *PerformanceHandler) HandleUpdatePerformance(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.UpdatePerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.Update(ctx.Request.Context(), *requester, id, service.PerformanceUpdate{
		Name:                      req.Name,
		Description:               req.Description,
		Genre:                     req.Genre,
		Duration:                  req.Duration,
		BandMembers:               req.BandMembers,
		TechnicalRequirement:      req.TechnicalRequirement,
		Setlist:                   req.Setlist,
		MerchandiseItems:          req.MerchandiseItems,
		PreferredRehearsalTimes:   req.PreferredRehearsalTimes,
		PreferredPerformanceSlots: req.PreferredPerformanceSlots,
	})
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleAddBandMember godoc
// @Summary      Add a band member to an unsubmitted performance
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.AddBandMemberRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/band-members [post]
func (h *PerformanceHandler) HandleAddBandMember(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.AddBandMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.AddBandMember(ctx.Request.Context(), *requester, id, req.Username)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleSubmitPerformance godoc
// @Summary      Submit a performance for review
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/submit [post]
func (h *PerformanceHandler) HandleSubmitPerformance(ctx *gin.Context) {
	h.transition(ctx, h.svc.Submit)
}

// HandleWithdrawPerformance godoc
// @Summary      Withdraw an unsubmitted performance
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Success      204
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID} [delete]
func (h *PerformanceHandler) HandleWithdrawPerformance(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	if err := h.svc.Withdraw(ctx.Request.Context(), *requester, id); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAssignStageManager godoc
// @Summary      Assign a staff member as stage manager
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.AssignStageManagerRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/stage-manager [post]
func (h *PerformanceHandler) HandleAssignStageManager(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.AssignStageManagerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.AssignStageManager(ctx.Request.Context(), *requester, id, req.Username)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleReviewPerformance godoc
// @Summary      Review a performance (assigned stage manager only)
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.ReviewPerformanceRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/review [post]
func (h *PerformanceHandler) HandleReviewPerformance(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.ReviewPerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.Review(ctx.Request.Context(), *requester, id, *req.Score, req.Comments)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleApprovePerformance godoc
// @Summary      Approve a reviewed performance
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/approve [post]
func (h *PerformanceHandler) HandleApprovePerformance(ctx *gin.Context) {
	h.transition(ctx, h.svc.Approve)
}

// HandleRejectPerformance godoc
// @Summary      Reject a performance with a reason
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.RejectPerformanceRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/reject [post]
func (h *PerformanceHandler) HandleRejectPerformance(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.RejectPerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.Reject(ctx.Request.Context(), *requester, id, req.Reason)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleFinalSubmit godoc
// @Summary      Lock in the final setlist, rehearsal times and slots
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Param        request         body      request.FinalSubmitRequest true "request body"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      400            {object}   response.Err
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/final-submit [post]
func (h *PerformanceHandler) HandleFinalSubmit(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	var req request.FinalSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performance, err := h.svc.FinalSubmit(ctx.Request.Context(), *requester, id, req.Setlist, req.RehearsalTimes, req.PerformanceSlots)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}

// HandleAcceptPerformance godoc
// @Summary      Schedule an approved performance
// @Tags         performances
// @Produce      json
// @Param        performanceID   path      int true "performance ID"
// @Success      200            {object}   response.PerformanceResponse
// @Failure      403            {object}   response.Err
// @Failure      404            {object}   response.Err
// @Failure      500            {object}   response.Err
// @Router       /performances/{performanceID}/accept [post]
func (h *PerformanceHandler) HandleAcceptPerformance(ctx *gin.Context) {
	h.transition(ctx, h.svc.Accept)
}

func (h *PerformanceHandler) transition(ctx *gin.Context, fn func(context.Context, domain.User, uint) (domain.Performance, error)) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	id, ok := parseIDParam(ctx, "performanceID")
	if !ok {
		return
	}

	performance, err := fn(ctx.Request.Context(), *requester, id)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPerformanceResponse(performance, true))
}
