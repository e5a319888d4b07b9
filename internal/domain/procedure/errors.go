package procedure

import "errors"

var (
	ErrEmptyLedger        = errors.New("visit has no procedure items")
	ErrInvalidToothNumber = errors.New("tooth number must be within 1..48")
	ErrInvalidPrice       = errors.New("procedure price must be positive")
)
