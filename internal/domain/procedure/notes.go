package procedure

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	freshHeader      = "Bajarilgan ishlar:"
	additionalHeader = "Qo'shimcha ish"
)

// AppendBlock merges a rendered procedure block into an appointment's
// notes. If the exact block already appears, the notes are returned
// unchanged with appended=false — this makes visit-completion commits
// idempotent against retried requests. A fresh notes field gets the
// "work performed" header; existing notes get a dated "additional work"
// header on top of whatever was there before.
func AppendBlock(notes, block string, now time.Time) (updated string, appended bool) {
	block = strings.TrimSpace(block)
	if block == "" {
		return notes, false
	}
	if strings.Contains(notes, block) {
		return notes, false
	}
	if strings.TrimSpace(notes) == "" {
		return freshHeader + "\n" + block, true
	}
	header := additionalHeader + " (" + now.Format("02.01.2006") + "):"
	return strings.TrimRight(notes, "\n") + "\n\n" + header + "\n" + block, true
}

var lineRe = regexp.MustCompile(`^- (.+) \((?:Tish #(\d+)|Umumiy)\)$`)

// ParseNotes re-derives procedure items from a free-text notes field by
// scanning for the canonical line pattern. Lossy: price and free-form
// note were never serialized, so reconstructed items carry neither. Kept
// for migrating legacy rows whose only record is the rendered text; new
// writes persist Entry rows instead.
func ParseNotes(notes string) []Item {
	var items []Item
	for _, raw := range strings.Split(notes, "\n") {
		m := lineRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		it := Item{ServiceName: m[1]}
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil {
				it.ToothNumber = &n
			}
		}
		items = append(items, it)
	}
	return items
}
