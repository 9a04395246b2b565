package domain

import "time"

// HistoryKeyLayout is fixed-width so that lexical key order matches creation order.
const HistoryKeyLayout = "2006-01-02T15:04:05.000Z"

type HistoryEntryID string

type HistoryEntry struct {
	ID           HistoryEntryID
	OriginalText string
	Summary      string
	// Timestamp is Unix milliseconds.
	Timestamp int64
}

func NewHistoryEntry(now time.Time, originalText, summary string) HistoryEntry {
	return HistoryEntry{
		ID:           HistoryKeyFor(now),
		OriginalText: originalText,
		Summary:      summary,
		Timestamp:    now.UnixMilli(),
	}
}

func HistoryKeyFor(t time.Time) HistoryEntryID {
	return HistoryEntryID(t.UTC().Format(HistoryKeyLayout))
}

func (e HistoryEntry) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// DisplayTime renders the entry timestamp the way a browser locale string would.
func DisplayTime(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return time.UnixMilli(ts).In(loc).Format("1/2/2006, 3:04:05 PM")
}
