package handlers

import (
	"errors"
	"net/http"
	"time"

	historyRepo "mechanio/database/repository/history"
	schedulingRepo "mechanio/database/repository/scheduling"
	"mechanio/models"
	"mechanio/services/scheduling"
	"mechanio/utils"

	"github.com/gin-gonic/gin"
)

// SchedulingHandler exposes the scheduling workflow over HTTP. Reads go
// straight to the repositories; every mutation goes through the workflow
// service.
type SchedulingHandler struct {
	Svc     scheduling.SchedulingService
	Repo    schedulingRepo.ScheduleRepository
	History historyRepo.HistoryRecorder
	Loc     *time.Location
}

func NewSchedulingHandler(
	svc scheduling.SchedulingService,
	repo schedulingRepo.ScheduleRepository,
	history historyRepo.HistoryRecorder,
	loc *time.Location,
) *SchedulingHandler {
	return &SchedulingHandler{Svc: svc, Repo: repo, History: history, Loc: loc}
}

// GetAvailability returns the bookable slots of a workshop for one date,
// shaped by the requester's role.
func (h *SchedulingHandler) GetAvailability(c *gin.Context) {
	workshopID := c.Param("workshopID")
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.Loc)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	var serviceIDs []string
	if raw := c.QueryArray("service"); len(raw) > 0 {
		serviceIDs = raw
	}

	day, err := h.Svc.GetAvailability(c.Request.Context(), actorFrom(c), workshopID, date, serviceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// Register books a new appointment for the authenticated customer.
func (h *SchedulingHandler) Register(c *gin.Context) {
	var req scheduling.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.Register(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// Get returns one scheduling, visible only to its customer, its workshop and
// administrators.
func (h *SchedulingHandler) Get(c *gin.Context) {
	actor := actorFrom(c)
	s, err := h.Repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, schedulingRepo.ErrNotFound) {
			respondError(c, scheduling.ErrSchedulingNotFound)
			return
		}
		respondError(c, err)
		return
	}
	if !canView(actor, s) {
		respondError(c, scheduling.ErrNotOwner)
		return
	}
	c.JSON(http.StatusOK, s)
}

// List returns the actor's schedulings, optionally narrowed by status.
func (h *SchedulingHandler) List(c *gin.Context) {
	actor := actorFrom(c)
	f := schedulingRepo.Filter{}
	switch actor.Role {
	case models.RoleCustomer:
		f.ProfileID = actor.ID
	case models.RoleWorkshop:
		f.WorkshopID = actor.ID
	case models.RoleAdmin:
		f.ProfileID = c.Query("profile_id")
		f.WorkshopID = c.Query("workshop_id")
	}
	if st := c.Query("status"); st != "" {
		f.Statuses = []models.Status{models.Status(st)}
	}

	list, err := h.Repo.FindBy(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedulings": list})
}

// GetHistory returns the append-only status trail of one scheduling.
func (h *SchedulingHandler) GetHistory(c *gin.Context) {
	actor := actorFrom(c)
	s, err := h.Repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, schedulingRepo.ErrNotFound) {
			respondError(c, scheduling.ErrSchedulingNotFound)
			return
		}
		respondError(c, err)
		return
	}
	if !canView(actor, s) {
		respondError(c, scheduling.ErrNotOwner)
		return
	}

	entries, err := h.History.ListByScheduling(c.Request.Context(), s.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Delete cancels a not-yet-confirmed appointment.
func (h *SchedulingHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scheduling deleted"})
}

// ConfirmScheduling approves or refuses the pending appointment time.
func (h *SchedulingHandler) ConfirmScheduling(c *gin.Context) {
	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ConfirmScheduling(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// SuggestTime proposes an alternative appointment time to the customer.
func (h *SchedulingHandler) SuggestTime(c *gin.Context) {
	var req struct {
		Date time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.SuggestTime(c.Request.Context(), actorFrom(c), c.Param("id"), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// SendBudget submits the workshop's quote after diagnosis.
func (h *SchedulingHandler) SendBudget(c *gin.Context) {
	var req scheduling.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.SendBudget(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ConfirmBudget records the customer's verdict on the quote. Kept service ids
// narrow a partial approval; an empty list with approve=true keeps everything.
func (h *SchedulingHandler) ConfirmBudget(c *gin.Context) {
	var req struct {
		Approve        *bool    `json:"approve" binding:"required"`
		KeptServiceIDs []string `json:"kept_service_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ConfirmBudget(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Approve, req.KeptServiceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ChangeStatus applies one of the workshop's execution-stage updates.
func (h *SchedulingHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status models.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ChangeSchedulingStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ConfirmPayment lands the payment gateway's callback outcome.
func (h *SchedulingHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ConfirmPayment(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ConfirmService records the customer's verdict on the finished work.
func (h *SchedulingHandler) ConfirmService(c *gin.Context) {
	var req struct {
		Approve *bool    `json:"approve" binding:"required"`
		Reason  string   `json:"reason"`
		Images  []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ConfirmService(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Approve, req.Reason, req.Images)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Dispute lets the workshop contest a customer disapproval.
func (h *SchedulingHandler) Dispute(c *gin.Context) {
	var req struct {
		Argument string   `json:"argument" binding:"required"`
		Images   []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.DisputeDisapprovedService(c.Request.Context(), actorFrom(c), c.Param("id"), req.Argument, req.Images)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Resolve is the administrator's arbitration of an open dispute.
func (h *SchedulingHandler) Resolve(c *gin.Context) {
	var req struct {
		Decision           scheduling.AdminDecision `json:"decision" binding:"required"`
		ApprovedServiceIDs []string                 `json:"approved_service_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ApproveOrReproveService(c.Request.Context(), actorFrom(c), c.Param("id"), req.Decision, req.ApprovedServiceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// SuggestFreeRepair offers a no-cost rework after a disapproval.
func (h *SchedulingHandler) SuggestFreeRepair(c *gin.Context) {
	s, err := h.Svc.SuggestFreeRepair(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ScheduleFreeRepair books the slot for an offered free repair.
func (h *SchedulingHandler) ScheduleFreeRepair(c *gin.Context) {
	var req struct {
		Date time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	s, err := h.Svc.ScheduleFreeRepair(c.Request.Context(), actorFrom(c), c.Param("id"), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func canView(actor scheduling.Actor, s *models.Scheduling) bool {
	switch actor.Role {
	case models.RoleCustomer:
		return s.ProfileID == actor.ID
	case models.RoleWorkshop:
		return s.WorkshopID == actor.ID
	case models.RoleAdmin:
		return true
	}
	return false
}
