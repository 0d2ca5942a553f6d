package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/middleware"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

// --------------------------------------------------
// Datas e instantes vindos do cliente
// --------------------------------------------------

// parseInstant aceita RFC3339 (com offset) ou "YYYY-MM-DDTHH:MM" no fuso
// da agenda.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(timezone.Location()), nil
	}
	return time.ParseInLocation("2006-01-02T15:04", s, timezone.Location())
}

func parseDate(s string) (time.Time, error) {
	return timezone.ParseDate(s)
}

// --------------------------------------------------
// Contexto
// --------------------------------------------------

func currentUserID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func currentActor(c *gin.Context) appointment.Actor {
	return appointment.Actor{
		UserID: currentUserID(c),
		Admin:  middleware.IsAdmin(c),
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, name+" invalide.")
		return 0, false
	}
	return uint(id), true
}
