package ctl

import "hidmux/ctltypes"

// Factory helpers returning *ctltypes.Error (single canonical error type).
func ErrBadRequest(detail string) *ctltypes.Error {
	return &ctltypes.Error{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *ctltypes.Error {
	return &ctltypes.Error{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *ctltypes.Error {
	return &ctltypes.Error{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) *ctltypes.Error {
	return &ctltypes.Error{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *ctltypes.Error.
func WrapError(err error) *ctltypes.Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*ctltypes.Error); ok {
		return ce
	}
	return ErrInternal(err.Error())
}
