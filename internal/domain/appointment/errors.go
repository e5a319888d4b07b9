package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorSlotTaken     = errors.New("doctor already has an appointment at this time")
	ErrPatientSlotTaken    = errors.New("patient already has an appointment at this time")
	ErrScheduledInPast     = errors.New("cannot schedule appointment in the past")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrInvalidDuration     = errors.New("appointment duration must be between 5 and 480 minutes")
	ErrInvalidStartMinute  = errors.New("start minute must be within 0..1439")
)
