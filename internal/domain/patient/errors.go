package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNameRequired    = errors.New("patient first and last name are required")
)
