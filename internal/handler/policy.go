/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package handler

import (
	"net/http"

	"policy-registry/src/internal/dto"
	"policy-registry/src/internal/service"
	"policy-registry/src/internal/utils"

	"github.com/gin-gonic/gin"
)

// PolicyHandler exposes the policy lifecycle over HTTP. All bodies are JSON;
// domain errors are translated centrally by utils.GetErrorResponse.
type PolicyHandler struct {
	policyService *service.PolicyService
}

func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
	}
}

func (h *PolicyHandler) RegisterRoutes(r *gin.Engine) {
	policyGroup := r.Group("/policy")
	{
		policyGroup.POST("/initialise", h.Initialise)
		policyGroup.POST("/create-initialised", h.CreateInitialVersion)
		policyGroup.POST("/update", h.Update)
		policyGroup.POST("/data", h.GetVersionData)
		policyGroup.POST("/download", h.DownloadPDF)
		policyGroup.POST("/status", h.ChangeStatus)
		policyGroup.POST("/approve", h.Approve)
		policyGroup.GET("/:orgPolicyId/versions", h.ListVersionHistory)
	}
}

// Initialise creates or refreshes a policy from a template. Responds 201 when
// the policy row was created, 200 when an existing one was refreshed.
func (h *PolicyHandler) Initialise(c *gin.Context) {
	var req dto.PolicyInitialiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.Initialise(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *PolicyHandler) CreateInitialVersion(c *gin.Context) {
	var req dto.PolicyCreateInitialVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.CreateInitialVersion(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PolicyHandler) Update(c *gin.Context) {
	var req dto.PolicyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.Update(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PolicyHandler) GetVersionData(c *gin.Context) {
	var req dto.PolicyDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.GetVersionData(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PolicyHandler) DownloadPDF(c *gin.Context) {
	var req dto.PolicyDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.DownloadPDF(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PolicyHandler) ChangeStatus(c *gin.Context) {
	var req dto.PolicyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.ChangeStatus(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PolicyHandler) Approve(c *gin.Context) {
	var req dto.PolicyApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", utils.FormatValidationError(err)))
		return
	}

	resp, err := h.policyService.Approve(c.Request.Context(), &req)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PolicyHandler) ListVersionHistory(c *gin.Context) {
	orgPolicyID := c.Param("orgPolicyId")
	if orgPolicyID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Policy ID is required"))
		return
	}

	resp, err := h.policyService.ListVersionHistory(c.Request.Context(), orgPolicyID)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
