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

package constants

import "errors"

var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrPolicyTemplateNotFound = errors.New("policy template not found")
	ErrTemplateTitleEmpty     = errors.New("policy template title is required but missing or empty")
)

var (
	ErrOrgPolicyNotFound = errors.New("org policy not found")
)

var (
	ErrNoVersions              = errors.New("no versions exist for this policy")
	ErrVersionNotFound         = errors.New("policy version not found")
	ErrDuplicateVersion        = errors.New("version already exists for this policy")
	ErrInvalidStatusTransition = errors.New("invalid version status transition")
	ErrInvalidExpiryDate       = errors.New("expired_at must be a YYYY-MM-DD date")
)

var (
	ErrApproverNotFound        = errors.New("approver not found")
	ErrApproverAlreadyDecided  = errors.New("approver decision already recorded for this version")
	ErrApproverNotAssigned     = errors.New("approver is not assigned to this version")
	ErrInvalidApproverDecision = errors.New("approver decision must be approved or rejected")
)

var (
	ErrUpstreamGenerator = errors.New("policy generation service failed")
	ErrRenderFailed      = errors.New("pdf rendering failed")
)
