package histogram

import "errors"

var (
	// ErrInvalidAxis is returned by constructors given fewer than one
	// channel or edges that do not satisfy left < right.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrBinningMismatch is returned by Add when the operands differ in
	// rank or in the binning of any axis.
	ErrBinningMismatch = errors.New("binning mismatch")
)
