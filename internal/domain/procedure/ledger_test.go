package procedure

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func tooth(n int) *int { return &n }

func TestLedger_AddRemoveTotal(t *testing.T) {
	l := NewLedger()

	a := l.Add(Item{ServiceName: "Plomba", Price: 250_000, ToothNumber: tooth(16)})
	l.Add(Item{ServiceName: "Tish olish", Price: 150_000, ToothNumber: tooth(27)})
	l.Add(Item{ServiceName: "Konsultatsiya", Price: 50_000})

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, int64(450_000), l.TotalPrice())

	l.Remove(a.ID)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, int64(200_000), l.TotalPrice())

	// Removing an unknown id is a no-op.
	l.Remove(uuid.New())
	assert.Equal(t, 2, l.Len())
}

func TestLedger_PriceOverride(t *testing.T) {
	l := NewLedger()
	// Catalog price would be 300 000; receptionist agreed a discount.
	l.Add(Item{ServiceName: "Koronka", Price: 280_000, ToothNumber: tooth(11)})

	assert.Equal(t, int64(280_000), l.TotalPrice())
}

func TestLedger_RenderInsertionOrder(t *testing.T) {
	l := NewLedger(
		Item{ServiceName: "Plomba", ToothNumber: tooth(16)},
		Item{ServiceName: "Konsultatsiya"},
		Item{ServiceName: "Tish olish", ToothNumber: tooth(27)},
	)

	want := "- Plomba (Tish #16)\n- Konsultatsiya (Umumiy)\n- Tish olish (Tish #27)"
	assert.Equal(t, want, l.Render())
}

func TestAppendBlock_FreshNotes(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	block := "- Plomba (Tish #16)"

	got, appended := AppendBlock("", block, now)

	assert.True(t, appended)
	assert.Equal(t, "Bajarilgan ishlar:\n- Plomba (Tish #16)", got)
}

func TestAppendBlock_AdditionalWork(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	notes := "Bajarilgan ishlar:\n- Plomba (Tish #16)"

	got, appended := AppendBlock(notes, "- Tish olish (Tish #27)", now)

	assert.True(t, appended)
	assert.Contains(t, got, "Qo'shimcha ish (10.06.2025):")
	assert.Contains(t, got, "- Tish olish (Tish #27)")
	// Original content preserved above the new block.
	assert.Contains(t, got, "- Plomba (Tish #16)")
}

// Committing the identical rendered block twice must leave exactly one
// copy in the notes.
func TestAppendBlock_IdempotentOnDuplicate(t *testing.T) {
	now := time.Now()
	block := "- Plomba (Tish #16)\n- Konsultatsiya (Umumiy)"

	first, appended := AppendBlock("", block, now)
	assert.True(t, appended)

	second, appended := AppendBlock(first, block, now)
	assert.False(t, appended)
	assert.Equal(t, first, second)
}

func TestAppendBlock_EmptyBlockIsNoop(t *testing.T) {
	got, appended := AppendBlock("existing", "  \n ", time.Now())
	assert.False(t, appended)
	assert.Equal(t, "existing", got)
}

func TestParseNotes(t *testing.T) {
	notes := "Bajarilgan ishlar:\n" +
		"- Plomba (Tish #16)\n" +
		"- Konsultatsiya (Umumiy)\n" +
		"\n" +
		"Qo'shimcha ish (10.06.2025):\n" +
		"- Tish olish (Tish #27)\n" +
		"aslida bemor kech keldi" // free text, not a procedure line

	items := ParseNotes(notes)

	assert.Len(t, items, 3)
	assert.Equal(t, "Plomba", items[0].ServiceName)
	assert.Equal(t, 16, *items[0].ToothNumber)
	assert.Equal(t, "Konsultatsiya", items[1].ServiceName)
	assert.Nil(t, items[1].ToothNumber)
	assert.Equal(t, 27, *items[2].ToothNumber)
}

// Reconstruction is lossy: price and per-item note are not recoverable
// from the rendered text.
func TestParseNotes_LossyRoundTrip(t *testing.T) {
	l := NewLedger(
		Item{ServiceName: "Plomba", Price: 250_000, Note: "chuqur karies", ToothNumber: tooth(36)},
	)
	items := ParseNotes(l.Render())

	assert.Len(t, items, 1)
	assert.Equal(t, "Plomba", items[0].ServiceName)
	assert.Equal(t, 36, *items[0].ToothNumber)
	assert.Zero(t, items[0].Price)
	assert.Empty(t, items[0].Note)
}
