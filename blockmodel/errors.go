package blockmodel

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoUVLayer       = errors.New("mesh has no active UV layer")
	ErrNotQuad         = errors.New("face is not a quad")
	ErrLoopMismatch    = errors.New("face vertex and loop counts differ")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFinite       = errors.New("coordinate is not a finite number")
	ErrNilMesh         = errors.New("no mesh to export")
)

// FaceError reports a face that cannot be converted.
type FaceError struct {
	Mesh   string
	Face   int
	Reason error
	Detail string
}

func (e *FaceError) Error() string {
	msg := fmt.Sprintf("%s: face %d: %v", e.Mesh, e.Face, e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *FaceError) Unwrap() error {
	return e.Reason
}
