package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/relentron/website/internal/api/constants"
	"github.com/relentron/website/internal/api/dto/common"
	"github.com/relentron/website/internal/api/dto/v1/enquiry"
	"github.com/relentron/website/internal/models"
	"github.com/relentron/website/internal/service"
	"github.com/relentron/website/internal/utils"

	"github.com/gin-gonic/gin"
)

// EnquirySubmitter is satisfied by *service.EnquiryService
type EnquirySubmitter interface {
	Submit(ctx context.Context, req *models.EnquiryRequest, remoteIP string) (*models.SubmissionOutcome, error)
}

type EnquiryHandler struct {
	enquiryService EnquirySubmitter
	siteKey        string
}

func NewEnquiryHandler(enquiryService EnquirySubmitter, siteKey string) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryService: enquiryService,
		siteKey:        siteKey,
	}
}

// Submit accepts one enquiry
func (h *EnquiryHandler) Submit(c *gin.Context) {
	// Get enquiry data from context (set by validation middleware)
	data, exists := c.Get(constants.ContextKeyEnquiry)
	if !exists {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Enquiry data not found in context")
		return
	}

	req, ok := data.(*models.EnquiryRequest)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid enquiry data format")
		return
	}

	outcome, err := h.enquiryService.Submit(c.Request.Context(), req, utils.GetRealIP(c))
	if err != nil {
		var ee *service.EnquiryError
		if errors.As(err, &ee) {
			utils.HandleAPIErrorWithFields(c, ee.Err, ee.Kind.HTTPStatus(), common.ErrorCode(ee.Kind), ee.Message, ee.Fields)
			return
		}
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Internal Server Error")
		return
	}

	utils.HandleSuccess(c, outcome.Message)
}

// Config returns what a form client needs before rendering
func (h *EnquiryHandler) Config(c *gin.Context) {
	utils.HandleData(c, enquiry.NewConfigResponse(h.siteKey))
}

// MethodNotAllowed answers any method other than POST on the enquiry route
func (h *EnquiryHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed,
		common.NewErrorResponse(common.ErrCodeMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", c.Request.Method)))
}
