package checks

import (
	"fmt"

	"section-mirror/feature/inventory"
	"section-mirror/feature/inventory/models"
)

// MirrorReport compares the mirror with the rows it is built from.
type MirrorReport struct {
	InSync   bool     `json:"in_sync"`
	Sections int      `json:"sections"`
	Items    int      `json:"items"`
	Drift    []string `json:"drift"`
}

// CheckMirror reports every difference between the mirrored sections and
// rows, which must be ordered by item type and then name.
func CheckMirror(sections []inventory.SectionView, rows []models.Item) *MirrorReport {
	report := &MirrorReport{Drift: []string{}}

	var expected []inventory.SectionView
	for _, row := range rows {
		if len(expected) == 0 || expected[len(expected)-1].Name != row.ItemType {
			expected = append(expected, inventory.SectionView{Name: row.ItemType})
		}
		last := &expected[len(expected)-1]
		last.Items = append(last.Items, row)
	}

	report.Sections = len(sections)
	for _, sec := range sections {
		report.Items += len(sec.Items)
	}

	if len(sections) != len(expected) {
		report.Drift = append(report.Drift, fmt.Sprintf("mirror has %d sections, store has %d", len(sections), len(expected)))
	}
	for i := 0; i < min(len(sections), len(expected)); i++ {
		got, want := sections[i], expected[i]
		if got.Name != want.Name {
			report.Drift = append(report.Drift, fmt.Sprintf("section %d is %q, store has %q", i, got.Name, want.Name))
			continue
		}
		if len(got.Items) != len(want.Items) {
			report.Drift = append(report.Drift, fmt.Sprintf("section %q has %d items, store has %d", got.Name, len(got.Items), len(want.Items)))
		}
		for j := 0; j < min(len(got.Items), len(want.Items)); j++ {
			g, w := got.Items[j], want.Items[j]
			switch {
			case g.UUID != w.UUID:
				report.Drift = append(report.Drift, fmt.Sprintf("[%d,%d] is %s, store has %s", i, j, g.UUID, w.UUID))
			case !g.SameContent(w):
				report.Drift = append(report.Drift, fmt.Sprintf("[%d,%d] %s is stale", i, j, g.UUID))
			}
		}
	}

	report.InSync = len(report.Drift) == 0
	return report
}
