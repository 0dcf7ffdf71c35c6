package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/infra/live"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
)

type ApprovalHandler struct {
	svc       service.ApprovalService
	hub       *live.Hub
	heartbeat time.Duration
}

func NewApprovalHandler(s service.ApprovalService, hub *live.Hub) *ApprovalHandler {
	return &ApprovalHandler{svc: s, hub: hub, heartbeat: 30 * time.Second}
}

// GetApproval godoc
//
//	@Summary		View shared RDO
//	@Description	Read-only view of a shared report with its cost totals, for the client who approves it
//	@Tags			approval
//	@Produce		json
//	@Param			token	path	string	true	"Share token"
//	@Success		200	{object}	serializer.Response{data=service.ApprovalView}
//	@Router			/public/rdo/{token} [get]
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	v, err := h.svc.View(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: v})
}

type ApproveReq struct {
	Signature signature.Input `json:"signature"`
}

// Approve godoc
//
//	@Summary		Approve RDO
//	@Description	Sign and approve a pending report. An empty signature is rejected with 422 and changes nothing.
//	@Tags			approval
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string		true	"Share token"
//	@Param			payload	body	ApproveReq	true	"Client signature"
//	@Success		200	{object}	serializer.Response{data=service.ApprovalResult}
//	@Router			/public/rdo/{token}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	req := ApproveReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	res, err := h.svc.Approve(c.Request.Context(), c.Param("token"), req.Signature)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: res, Msg: "RDO aprovado"})
}

type RejectReq struct {
	Reason string `json:"reason" example:"Faltou a foto da concretagem"`
}

// Reject godoc
//
//	@Summary		Reject RDO
//	@Description	Send a pending report back to its owner with a reason
//	@Tags			approval
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string		true	"Share token"
//	@Param			payload	body	RejectReq	true	"Rejection reason"
//	@Success		200	{object}	serializer.Response{data=model.Rdo}
//	@Router			/public/rdo/{token}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	req := RejectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	r, err := h.svc.Reject(c.Request.Context(), c.Param("token"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: r, Msg: "RDO devolvido para correção"})
}

// Events godoc
//
//	@Summary		Live RDO changes
//	@Description	Server-Sent Events stream with an rdo_changed event on every save or status change of the shared report. Clients re-fetch on each event.
//	@Tags			approval
//	@Produce		text/event-stream
//	@Param			token	path	string	true	"Share token"
//	@Success		200
//	@Router			/public/rdo/{token}/events [get]
func (h *ApprovalHandler) Events(c *gin.Context) {
	v, err := h.svc.View(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}

	client := &live.Client{
		ID:     uuid.NewString(),
		Topic:  v.Rdo.ID.String(),
		Events: make(chan live.Event, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"rdo_id\":%q}\n\n", client.Topic)
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case ev, ok := <-client.Events:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.EventType, ev.Data)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
