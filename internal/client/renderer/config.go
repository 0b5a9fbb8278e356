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

package renderer

import "time"

// Config contains the rendering service configuration used to create clients
type Config struct {
	URL        string        // full endpoint URL including scheme, e.g. http://renderer:8002/api/render
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // max retry attempts for transient errors
}

// DefaultTimeout is the default rendering timeout
const DefaultTimeout = 60 * time.Second
