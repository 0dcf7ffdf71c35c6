package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: s}
}

// ListRoles godoc
//
//	@Summary		List role catalog
//	@Description	Job roles with their daily cost, used to prefill manpower rows
//	@Tags			catalog
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.RoleCatalog}
//	@Router			/catalog/roles [get]
func (h *CatalogHandler) ListRoles(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}

	roles, err := h.svc.Roles(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: roles})
}

// ListMachines godoc
//
//	@Summary		List machine catalog
//	@Description	Machines with their hourly cost, used to prefill equipment rows
//	@Tags			catalog
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.MachineCatalog}
//	@Router			/catalog/machines [get]
func (h *CatalogHandler) ListMachines(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}

	machines, err := h.svc.Machines(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: machines})
}

// ListSchedule godoc
//
//	@Summary		List obra schedule
//	@Description	Schedule stages of an obra, used to prefill activity rows
//	@Tags			catalog
//	@Produce		json
//	@Param			obra_id	path	string	true	"Obra ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ScheduleItem}
//	@Router			/obras/{obra_id}/schedule [get]
func (h *CatalogHandler) ListSchedule(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}
	obraID, err := uuid.Parse(c.Param("obra_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid obra_id", err))
		return
	}

	items, err := h.svc.Schedule(c.Request.Context(), sess.UserID, obraID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: items})
}
