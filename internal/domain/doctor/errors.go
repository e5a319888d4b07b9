package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrInvalidPercentage = errors.New("revenue percentage must be between 0 and 100")
)
