package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fingerprint derives the idempotency key of one clinical episode:
// clinic + patient + calendar day + total + the set of procedure entry
// ids, order-independent. A settlement retried with the same episode
// hits the same key and is answered with the original postings instead
// of duplicating them.
func Fingerprint(clinicID uuid.UUID, patientID *uuid.UUID, day time.Time, total int64, procedureIDs []uuid.UUID) string {
	ids := make([]string, len(procedureIDs))
	for i, id := range procedureIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	patient := ""
	if patientID != nil {
		patient = patientID.String()
	}

	raw := fmt.Sprintf("%s|%s|%s|%d|%s",
		clinicID, patient, day.Format("2006-01-02"), total, strings.Join(ids, ","))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
