package statline

import "errors"

// Sentinel kinds for classification errors.
var (
	ErrMissingSeason   = errors.New("stat line has no season id")
	ErrUnknownPosGroup = errors.New("unrecognized position group")
)
