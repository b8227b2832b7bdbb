// Package converter builds mesh snapshots from documents loaded by the
// format packages. Every converter maps its source convention to the
// snapshot's right-handed Z-up space.
package converter

import "github.com/pkg/errors"

var ErrObjectNotFound = errors.New("object not found")
