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

package service

import (
	"fmt"
	"strings"
	"time"

	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/model"

	"github.com/Masterminds/semver/v3"
)

// parseVersion reads a "MAJOR.MINOR" version string. A bare major ("3") gets
// minor 0; a patch component is tolerated and ignored.
func parseVersion(s string) (major, minor uint64, err error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v.Major(), v.Minor(), nil
}

// nextVersionNumber assigns the version string for a new commit.
//
// A caller-provided version always forces a major bump off that version. With
// nothing provided the latest committed version advances its minor, or its
// major when that version has already expired. Unparseable input falls back
// to the initial version rather than failing the commit.
func nextVersionNumber(requested string, last *model.PolicyVersion, now time.Time) string {
	if requested != "" {
		major, _, err := parseVersion(requested)
		if err != nil {
			return constants.InitialVersion
		}
		return fmt.Sprintf("%d.0", major+1)
	}

	if last == nil {
		return constants.InitialVersion
	}

	major, minor, err := parseVersion(last.Version)
	if err != nil {
		return constants.InitialVersion
	}
	if versionExpired(last.ExpiredAt, now) {
		return fmt.Sprintf("%d.0", major+1)
	}
	return fmt.Sprintf("%d.%d", major, minor+1)
}

// versionExpired reports whether the expiry date lies strictly before today.
// Comparison is by calendar date in UTC, not by instant.
func versionExpired(expiredAt *time.Time, now time.Time) bool {
	if expiredAt == nil {
		return false
	}
	ey, em, ed := expiredAt.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return expiry.Before(today)
}

// isCheckpointPosition reports whether a commit landing at the 1-based
// position stores the complete HTML next to its delta. The first version is
// always a checkpoint; afterwards one is placed every CheckpointInterval
// commits starting at CheckpointThreshold, which bounds replay length.
func isCheckpointPosition(position int) bool {
	if position == 1 {
		return true
	}
	return position >= constants.CheckpointThreshold && position%constants.CheckpointInterval == 1
}
