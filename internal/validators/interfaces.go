// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks entities before they are written, on the client
// ahead of a remote call and in the development API ahead of the catalog.
//
// Validation can be narrowed to named fields (see the Field constants); with
// no fields a type's default set is checked.
package validators

import "context"

// Validator validates obj, optionally only the named fields.
// Unsupported types fail with [ErrUnsupportedType], unknown field names with
// [ErrUnknownField].
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
