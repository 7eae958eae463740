package reconcile

import (
	"context"
	"fmt"
)

// ChangeKind is the kind of change reported by the upstream source.
type ChangeKind int

const (
	// ChangeInsert reports a new section or item.
	ChangeInsert ChangeKind = iota + 1
	// ChangeDelete reports a removed section or item.
	ChangeDelete
	// ChangeUpdate reports an item whose content changed in place.
	ChangeUpdate
	// ChangeMove reports an item that changed position, possibly across sections.
	ChangeMove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeUpdate:
		return "update"
	case ChangeMove:
		return "move"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// IndexPath locates an item by section and position within the section.
type IndexPath struct {
	Section int
	Item    int
}

// Path is shorthand for building an *IndexPath.
func Path(section, item int) *IndexPath {
	return &IndexPath{Section: section, Item: item}
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Item)
}

// SectionSnapshot is the content of one section as reported by the source.
type SectionSnapshot[T comparable] struct {
	// Name is the section key (e.g. the value items are grouped by).
	Name string
	// Items is the ordered content of the section.
	Items []T
}

// Delegate receives batch notifications from a Source. Results implements it.
type Delegate[T comparable] interface {
	// OnBeginBatch opens a batch.
	OnBeginBatch()
	// OnEndBatch applies everything staged since OnBeginBatch.
	OnEndBatch()
	// OnSectionChanged reports a section insert or delete. The snapshot is
	// required for inserts and ignored for deletes.
	OnSectionChanged(sectionIndex int, kind ChangeKind, snapshot *SectionSnapshot[T])
	// OnItemChanged reports an item change. from is required for delete,
	// update and move; to is required for insert and move.
	OnItemChanged(record T, from *IndexPath, kind ChangeKind, to *IndexPath)
}

// Source is the upstream change source.
type Source[T comparable] interface {
	// Fetch returns the authoritative initial snapshot.
	Fetch(ctx context.Context) ([]SectionSnapshot[T], error)
	// SetDelegate registers the receiver of later batches. A nil delegate
	// detaches the previous one.
	SetDelegate(d Delegate[T])
}
