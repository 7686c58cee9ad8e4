package engine

import (
	"sort"
	"strings"

	"github.com/cicero78M/recap-engine/internal/models"
)

// SortCompliance orders a recap listing in place: priority rank ascending,
// engaged count descending, case-insensitive display name ascending, then
// person ID. The final key makes the ordering strict, so reversing the input
// roster cannot change the output.
func SortCompliance(records []models.ComplianceRecord, rules []PriorityRule) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]

		ra, rb := priorityRank(a.DisplayName, rules), priorityRank(b.DisplayName, rules)
		if ra != rb {
			return ra < rb
		}
		if a.EngagedCount != b.EngagedCount {
			return a.EngagedCount > b.EngagedCount
		}
		na, nb := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)
		if na != nb {
			return na < nb
		}
		return a.PersonID < b.PersonID
	})
}

// SortByScore orders ranking entries by combined engagement score
// descending with the name tie-break. This is the best/worst-performer
// ordering and is deliberately distinct from the compliance-listing sort.
func SortByScore(entries []models.ScoreEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})
}

// TopN returns the first n entries of a score-sorted list
func TopN(entries []models.ScoreEntry, n int) []models.ScoreEntry {
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]models.ScoreEntry, n)
	copy(out, entries[:n])
	return out
}

// BottomN returns the last n entries of a score-sorted list, worst first
func BottomN(entries []models.ScoreEntry, n int) []models.ScoreEntry {
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]models.ScoreEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}
