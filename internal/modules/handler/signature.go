package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
)

type SignatureHandler struct {
	svc service.SignatureService
}

func NewSignatureHandler(s service.SignatureService) *SignatureHandler {
	return &SignatureHandler{svc: s}
}

type SaveSignatureReq struct {
	RdoID     *uuid.UUID      `json:"rdo_id" format:"uuid"`
	Signature signature.Input `json:"signature"`
}

// SaveSignature godoc
//
//	@Summary		Save responsible signature
//	@Description	Rasterize and store the responsible party's signature. The URL goes into responsible_signature_url of the report form.
//	@Tags			signature
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	SaveSignatureReq	true	"Signature strokes or PNG data URL"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.SavedSignature}
//	@Router			/signatures [post]
func (h *SignatureHandler) SaveSignature(c *gin.Context) {
	if _, ok := sessionOf(c); !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}
	req := SaveSignatureReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	saved, err := h.svc.Save(c.Request.Context(), service.SaveSignatureInput{
		RdoID:     req.RdoID,
		Role:      service.SignerResponsible,
		Signature: req.Signature,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: saved})
}
