package handlers

import (
	"errors"
	"net/http"

	"mechanio/middleware"
	"mechanio/models"
	"mechanio/services/scheduling"
	"mechanio/utils"

	"github.com/gin-gonic/gin"
)

// actorFrom reads the authenticated identity the auth middleware stored on
// the request context.
func actorFrom(c *gin.Context) scheduling.Actor {
	role, _ := c.Get(middleware.CtxActorRole)
	r, _ := role.(models.Role)
	return scheduling.Actor{
		ID:   c.GetString(middleware.CtxActorID),
		Role: r,
	}
}

// respondError maps service errors onto HTTP responses. Business-rule
// violations become 4xx with the rule's own message; anything else is an
// unexpected failure and surfaces as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrSchedulingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, scheduling.ErrNotOwner), errors.Is(err, scheduling.ErrNotPermitted):
		utils.JSONError(c, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, scheduling.ErrSlotInUse):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case scheduling.IsRuleError(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
