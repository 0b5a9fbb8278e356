package handler

import (
	"net/http"

	"policy-registry/src/internal/service"
	"policy-registry/src/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	policyService *service.PolicyService
}

func NewOrganizationHandler(policyService *service.PolicyService) *OrganizationHandler {
	return &OrganizationHandler{
		policyService: policyService,
	}
}

// ListPolicies returns every policy owned by the organization together with
// its latest version summary.
func (h *OrganizationHandler) ListPolicies(c *gin.Context) {
	orgID := c.Param("orgId")
	if orgID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Organization ID is required"))
		return
	}

	resp, err := h.policyService.ListOrgPolicies(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OrganizationHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/organizations")
	{
		orgGroup.GET("/:orgId/policies", h.ListPolicies)
	}
}
