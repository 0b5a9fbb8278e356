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

package generator

import "time"

// Config contains the generator endpoint configuration used to create clients
type Config struct {
	URL        string        // full endpoint URL including scheme, e.g. http://generator:8001/api/generate
	Timeout    time.Duration // per-request timeout; generation is slow, keep this generous
	MaxRetries int           // max retry attempts for transient errors; generation is not idempotent enough to retry by default
}

// DefaultTimeout is the default generation timeout. Document generation
// regularly takes tens of seconds.
const DefaultTimeout = 100 * time.Second
