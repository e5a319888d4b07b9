// Package procedure tracks the clinical work performed during a visit.
//
// During the visit the ledger is a transient working list; on commit every
// line is persisted as an append-only Entry row keyed by appointment, and
// a rendered textual summary is attached to the appointment's notes for
// display and printing.
package procedure

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item is one unit of clinical work chosen during a visit. Price defaults
// to the catalog list price but may be overridden per item.
type Item struct {
	ID          uuid.UUID `json:"id"`
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	ToothNumber *int      `json:"tooth_number,omitempty"`
	Price       int64     `json:"price"`
	Note        string    `json:"note,omitempty"`
}

// Line renders the item in the canonical single-line form embedded in
// appointment notes: tooth-specific work carries the tooth number,
// everything else is marked "Umumiy" (general).
func (it Item) Line() string {
	if it.ToothNumber != nil {
		return fmt.Sprintf("- %s (Tish #%d)", it.ServiceName, *it.ToothNumber)
	}
	return fmt.Sprintf("- %s (Umumiy)", it.ServiceName)
}

// Ledger is the in-progress visit's working list. Insertion order is
// preserved; it is what Render emits.
type Ledger struct {
	items []Item
}

func NewLedger(items ...Item) *Ledger {
	l := &Ledger{}
	for _, it := range items {
		l.Add(it)
	}
	return l
}

func (l *Ledger) Add(it Item) Item {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	l.items = append(l.items, it)
	return it
}

// Remove drops the item with the given id; unknown ids are ignored.
func (l *Ledger) Remove(id uuid.UUID) {
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *Ledger) Items() []Item {
	return l.items
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// TotalPrice sums item prices, overrides included.
func (l *Ledger) TotalPrice() int64 {
	var total int64
	for _, it := range l.items {
		total += it.Price
	}
	return total
}

// Render produces one line per item in insertion order.
func (l *Ledger) Render() string {
	var b strings.Builder
	for i, it := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.Line())
	}
	return b.String()
}
