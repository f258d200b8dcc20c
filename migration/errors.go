// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migration

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is returned when the source container or bucket does not exist
var ErrSourceUnavailable = errors.New("source container does not exist")

// SinkAuthenticationError is returned when the document library rejects the
// credential exchange
type SinkAuthenticationError struct {
	Cause error
}

func (e *SinkAuthenticationError) Error() string {
	if e.Cause == nil {
		return "document library authentication failed"
	}
	return fmt.Sprintf("document library authentication failed: %v", e.Cause)
}

func (e *SinkAuthenticationError) Unwrap() error {
	return e.Cause
}

// RemoteStoreError is a structured error returned by the document library API
type RemoteStoreError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("remote store error %d [%s]: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a RemoteStoreError for a missing item
func IsNotFound(err error) bool {
	var rse *RemoteStoreError
	return errors.As(err, &rse) && rse.StatusCode == 404
}

// DescribeError renders err as the message recorded on a failed outcome.
// Authentication failures take precedence over remote store errors, which
// take precedence over everything else.
func DescribeError(err error) string {
	var authErr *SinkAuthenticationError
	if errors.As(err, &authErr) {
		return "Authentication failed: " + authErr.Error()
	}

	var rse *RemoteStoreError
	if errors.As(err, &rse) {
		return fmt.Sprintf("Document library error [%s]: %s", rse.Code, rse.Message)
	}

	return fmt.Sprintf("Unexpected error (%T): %v", rootCause(err), err)
}

// rootCause follows the Unwrap chain so context added with %w does not hide
// the type of the error that actually failed
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
