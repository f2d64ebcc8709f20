package handlers

import (
	"net/http"
	"time"

	"mechanio/models"
	"mechanio/services/agenda"
	"mechanio/utils"

	"github.com/gin-gonic/gin"
)

// AgendaHandler exposes the workshop's weekly template and blocked slots.
// All routes are workshop-only; the acting workshop is taken from the token,
// never from the payload.
type AgendaHandler struct {
	Svc agenda.AgendaService
	Loc *time.Location
}

func NewAgendaHandler(svc agenda.AgendaService, loc *time.Location) *AgendaHandler {
	return &AgendaHandler{Svc: svc, Loc: loc}
}

// Get returns the acting workshop's weekly template.
func (h *AgendaHandler) Get(c *gin.Context) {
	a, err := h.Svc.GetAgenda(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Put replaces the weekly template and reports what changed.
func (h *AgendaHandler) Put(c *gin.Context) {
	var req struct {
		Days [7]models.DayAgenda `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	a, diff, err := h.Svc.SetWeeklyTemplate(c.Request.Context(), actorFrom(c).ID, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agenda": a,
		"changed": gin.H{
			"days_opened":   weekdayNames(diff.DaysOpened),
			"days_closed":   weekdayNames(diff.DaysClosed),
			"hours_changed": weekdayNames(diff.HoursChanged),
			"break_changed": weekdayNames(diff.BreakChanged),
		},
	})
}

// BlockSlot removes one slot instant from availability.
func (h *AgendaHandler) BlockSlot(c *gin.Context) {
	var req struct {
		Date time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	slot, err := h.Svc.BlockSlot(c.Request.Context(), actorFrom(c).ID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// UnblockSlot revokes a block.
func (h *AgendaHandler) UnblockSlot(c *gin.Context) {
	var req struct {
		Date time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.UnblockSlot(c.Request.Context(), actorFrom(c).ID, req.Date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot unblocked"})
}

// ListBlockedSlots returns the blocks inside an optional date range,
// defaulting to the coming month.
func (h *AgendaHandler) ListBlockedSlots(c *gin.Context) {
	now := time.Now().In(h.Loc)
	from, to := now, now.AddDate(0, 1, 0)
	if q := c.Query("from"); q != "" {
		t, err := time.ParseInLocation("2006-01-02", q, h.Loc)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", err.Error())
			return
		}
		from = t
	}
	if q := c.Query("to"); q != "" {
		t, err := time.ParseInLocation("2006-01-02", q, h.Loc)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD", err.Error())
			return
		}
		to = t
	}

	slots, err := h.Svc.ListBlockedSlots(c.Request.Context(), actorFrom(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked_slots": slots})
}

func weekdayNames(days []time.Weekday) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return names
}
