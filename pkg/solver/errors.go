// Copyright Conjure-CP Contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package solver

import (
	"errors"
	"fmt"
)

// The error taxonomy of the pipeline.  Rules signal "not me" locally and
// that never surfaces here; everything below is fatal for the current solve
// and propagates to the top-level caller, annotated on the way out.
var (
	// ErrParse indicates the upstream parser could not produce a model.
	ErrParse = errors.New("parse error")
	// ErrModelInvalid indicates an invariant was violated during lowering,
	// e.g. a reference out of scope or a duplicate declaration.
	ErrModelInvalid = errors.New("model invalid")
	// ErrModelFeatureNotSupported indicates a construct reached a backend
	// which cannot encode it.  Other backends may still succeed.
	ErrModelFeatureNotSupported = errors.New("model feature not supported")
	// ErrModelFeatureNotImplemented indicates a construct the backend
	// intends to support but does not yet.
	ErrModelFeatureNotImplemented = errors.New("model feature not implemented")
	// ErrSolverRuntime indicates the backend reported an error, surfaced
	// verbatim with the adaptor name.
	ErrSolverRuntime = errors.New("solver runtime error")
	// ErrDomain indicates a domain could not be resolved, or has infinite
	// enumeration where finiteness was required.
	ErrDomain = errors.New("domain error")
)

// ModelInvalid builds an ErrModelInvalid with diagnostic detail.
func ModelInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrModelInvalid, fmt.Sprintf(format, args...))
}

// FeatureNotSupported builds an ErrModelFeatureNotSupported with detail.
func FeatureNotSupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrModelFeatureNotSupported, fmt.Sprintf(format, args...))
}

// Runtime wraps a backend error with the adaptor name.
func Runtime(adaptor string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSolverRuntime, adaptor, err)
}
