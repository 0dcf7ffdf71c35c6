package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/form"
	"github.com/meurdo/meurdo-api/internal/modules/schema"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
)

// MaxAttachmentBytes bounds a single photo upload.
const MaxAttachmentBytes = 10 << 20

type RdoHandler struct {
	svc service.RdoService
}

func NewRdoHandler(s service.RdoService) *RdoHandler {
	return &RdoHandler{svc: s}
}

// formRequest reads the session and the obra/date path parameters.
func formRequest(c *gin.Context) (service.FormRequest, bool) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return service.FormRequest{}, false
	}
	obraID, err := uuid.Parse(c.Param("obra_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid obra_id", err))
		return service.FormRequest{}, false
	}
	date, err := time.Parse(schema.DateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid date, expected YYYY-MM-DD", err))
		return service.FormRequest{}, false
	}
	return service.FormRequest{UserID: sess.UserID, ObraID: obraID, Date: date}, true
}

// GetForm godoc
//
//	@Summary		Open RDO form
//	@Description	Open the report form of an obra for a day: the stored report when one exists, a blank form otherwise
//	@Tags			rdo
//	@Produce		json
//	@Param			obra_id	path	string	true	"Obra ID"	Format(uuid)
//	@Param			date	path	string	true	"Report date"	example(2024-03-01)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=form.View}
//	@Router			/obras/{obra_id}/rdos/{date}/form [get]
func (h *RdoHandler) GetForm(c *gin.Context) {
	req, ok := formRequest(c)
	if !ok {
		return
	}

	v, err := h.svc.OpenForm(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

type FormBody struct {
	Form *schema.Submission `json:"form"`
}

type CopyPreviousResp struct {
	Copied bool      `json:"copied"`
	View   form.View `json:"form"`
}

// CopyPreviousDay godoc
//
//	@Summary		Copy previous day
//	@Description	Replace manpower and equipment with the rows of the previous day's report. copied is false when there is none.
//	@Tags			rdo
//	@Accept			json
//	@Produce		json
//	@Param			obra_id	path	string		true	"Obra ID"	Format(uuid)
//	@Param			date	path	string		true	"Report date"	example(2024-03-01)
//	@Param			payload	body	FormBody	false	"Current form"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=CopyPreviousResp}
//	@Router			/obras/{obra_id}/rdos/{date}/form/copy-previous [post]
func (h *RdoHandler) CopyPreviousDay(c *gin.Context) {
	req, ok := formRequest(c)
	if !ok {
		return
	}
	body := FormBody{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}
	req.Form = body.Form

	v, copied, err := h.svc.CopyPrevious(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: CopyPreviousResp{Copied: copied, View: *v}})
}

type PrefillReq struct {
	Form       *schema.Submission `json:"form"`
	Section    form.SectionName   `json:"section" binding:"required" example:"manpower"`
	Key        string             `json:"key" binding:"required"`
	CatalogKey string             `json:"catalog_key" binding:"required" example:"Pedreiro"`
}

// Prefill godoc
//
//	@Summary		Prefill a row from a catalog
//	@Description	Fill one row from the role catalog, the machine catalog or the obra schedule. catalog_key is a catalog id or name.
//	@Tags			rdo
//	@Accept			json
//	@Produce		json
//	@Param			obra_id	path	string		true	"Obra ID"	Format(uuid)
//	@Param			date	path	string		true	"Report date"	example(2024-03-01)
//	@Param			payload	body	PrefillReq	true	"Prefill request"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=form.View}
//	@Router			/obras/{obra_id}/rdos/{date}/form/prefill [post]
func (h *RdoHandler) Prefill(c *gin.Context) {
	req, ok := formRequest(c)
	if !ok {
		return
	}
	body := PrefillReq{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req.Form = body.Form

	v, err := h.svc.Prefill(c.Request.Context(), req, body.Section, body.Key, body.CatalogKey)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

type AttachmentPayload struct {
	Form    *schema.Submission `json:"form"`
	Section form.SectionName   `json:"section" example:"activities"`
	Key     string             `json:"key"`
}

// AttachPhoto godoc
//
//	@Summary		Attach a photo to a row
//	@Description	Upload a photo for an activity, equipment or material row, or the safety photo. payload is a JSON AttachmentPayload. Clients must apply the returned url to the row with the same key in their local form, and drop it if that row no longer exists.
//	@Tags			rdo
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			obra_id	path		string	true	"Obra ID"	Format(uuid)
//	@Param			date	path		string	true	"Report date"	example(2024-03-01)
//	@Param			payload	formData	string	true	"AttachmentPayload JSON"
//	@Param			file	formData	file	true	"Photo"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.AttachResult}
//	@Router			/obras/{obra_id}/rdos/{date}/form/attachments [post]
func (h *RdoHandler) AttachPhoto(c *gin.Context) {
	req, ok := formRequest(c)
	if !ok {
		return
	}

	payload := AttachmentPayload{}
	if err := sonic.Unmarshal([]byte(c.PostForm("payload")), &payload); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid payload json", err))
		return
	}
	req.Form = payload.Form

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}
	if fh.Size > MaxAttachmentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, serializer.Err(http.StatusRequestEntityTooLarge, "Arquivo maior que 10 MB", nil))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	defer f.Close()
	body, err := io.ReadAll(io.LimitReader(f, MaxAttachmentBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.AttachPhoto(c.Request.Context(), req, payload.Section, payload.Key, form.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// SubmitRdo godoc
//
//	@Summary		Save RDO
//	@Description	Validate and save the report of an obra for a day. Rule violations come back as 422 with data.violations.
//	@Tags			rdo
//	@Accept			json
//	@Produce		json
//	@Param			obra_id	path	string				true	"Obra ID"	Format(uuid)
//	@Param			date	path	string				true	"Report date"	example(2024-03-01)
//	@Param			payload	body	schema.Submission	true	"Report"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.SubmitResult}
//	@Failure		422	{object}	serializer.Response{data=serializer.ViolationsData}
//	@Router			/obras/{obra_id}/rdos/{date} [put]
func (h *RdoHandler) SubmitRdo(c *gin.Context) {
	req, ok := formRequest(c)
	if !ok {
		return
	}
	sub := schema.Submission{}
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req.Form = &sub

	res, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	if len(res.Violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, serializer.Invalid(res.Violations))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: res})
}

type ListRdosReq struct {
	Limit  int    `form:"limit,default=20" json:"limit" binding:"required,min=1,max=100" example:"20"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListRdos godoc
//
//	@Summary		List RDOs
//	@Description	List the reports of an obra, newest day first
//	@Tags			rdo
//	@Produce		json
//	@Param			obra_id	path	string	true	"Obra ID"	Format(uuid)
//	@Param			limit	query	integer	false	"Limit of reports to return, default 20. Max 100."
//	@Param			cursor	query	string	false	"Cursor for pagination. Use the cursor from the previous response to get the next page."
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListRdosOutput}
//	@Router			/obras/{obra_id}/rdos [get]
func (h *RdoHandler) ListRdos(c *gin.Context) {
	req := ListRdosReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
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

	out, err := h.svc.List(c.Request.Context(), service.ListRdosInput{
		UserID: sess.UserID,
		ObraID: obraID,
		Limit:  req.Limit,
		Cursor: req.Cursor,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

func rdoTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return uuid.Nil, uuid.Nil, false
	}
	rdoID, err := uuid.Parse(c.Param("rdo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid rdo_id", err))
		return uuid.Nil, uuid.Nil, false
	}
	return sess.UserID, rdoID, true
}

// ShareRdo godoc
//
//	@Summary		Share RDO for approval
//	@Description	Return the public approval link of a report and a WhatsApp deep link. The first share moves a draft to pending.
//	@Tags			rdo
//	@Produce		json
//	@Param			rdo_id	path	string	true	"RDO ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ShareLink}
//	@Router			/rdos/{rdo_id}/share [post]
func (h *RdoHandler) ShareRdo(c *gin.Context) {
	userID, rdoID, ok := rdoTarget(c)
	if !ok {
		return
	}

	link, err := h.svc.Share(c.Request.Context(), userID, rdoID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: link})
}

// ResubmitRdo godoc
//
//	@Summary		Resubmit a rejected RDO
//	@Description	Send a rejected report back to pending approval
//	@Tags			rdo
//	@Produce		json
//	@Param			rdo_id	path	string	true	"RDO ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Rdo}
//	@Router			/rdos/{rdo_id}/resubmit [post]
func (h *RdoHandler) ResubmitRdo(c *gin.Context) {
	userID, rdoID, ok := rdoTarget(c)
	if !ok {
		return
	}

	r, err := h.svc.Resubmit(c.Request.Context(), userID, rdoID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: r})
}

// GetHistory godoc
//
//	@Summary		RDO status history
//	@Description	List every approval status change of a report, oldest first
//	@Tags			rdo
//	@Produce		json
//	@Param			rdo_id	path	string	true	"RDO ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.RdoStatusEvent}
//	@Router			/rdos/{rdo_id}/history [get]
func (h *RdoHandler) GetHistory(c *gin.Context) {
	userID, rdoID, ok := rdoTarget(c)
	if !ok {
		return
	}

	events, err := h.svc.History(c.Request.Context(), userID, rdoID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: events})
}
