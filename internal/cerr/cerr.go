// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package cerr provides a string type for declaring sentinel errors as
// constants, so that they can neither be reassigned nor compared by pointer.
package cerr

type Error string

func (e Error) Error() string {
	return string(e)
}
