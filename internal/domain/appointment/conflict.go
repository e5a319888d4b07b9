package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/klinika/dentis/pkg/dateutil"
)

// Candidate is a proposed booking slot.
type Candidate struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      time.Time
	StartMin  int
}

// Conflict reports which uniqueness rule a candidate slot violates.
// When both fire, callers report the doctor conflict first.
type Conflict struct {
	Doctor  bool
	Patient bool
}

func (c Conflict) Any() bool {
	return c.Doctor || c.Patient
}

// CheckConflict decides bookability of a candidate against a snapshot of
// existing appointments. Equality is exact start-minute on the same
// calendar day; duration is not consulted. Cancelled appointments never
// conflict. Pure; the repository's partial unique indexes give the same
// decision transactionally at commit time.
func CheckConflict(existing []*Appointment, cand Candidate) Conflict {
	var c Conflict
	for _, a := range existing {
		if !a.IsActive() {
			continue
		}
		if !dateutil.SameDay(a.Date, cand.Date) || a.StartMin != cand.StartMin {
			continue
		}
		if a.DoctorID == cand.DoctorID {
			c.Doctor = true
		}
		if a.PatientID == cand.PatientID {
			c.Patient = true
		}
		if c.Doctor && c.Patient {
			break
		}
	}
	return c
}

// InPast reports whether the candidate's start instant is strictly
// earlier than now. Past candidates are rejected regardless of conflicts.
func (c Candidate) InPast(now time.Time) bool {
	return dateutil.At(c.Date, c.StartMin).Before(now)
}
