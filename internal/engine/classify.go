package engine

import (
	"github.com/cicero78M/recap-engine/internal/models"
)

// Classify assigns the compliance status for one person given their engaged
// item count and the window's total content count. Pure and total over its
// inputs.
//
// Precedence: the exception override wins over everything, a missing handle
// wins over an empty window, and only then do the count thresholds apply.
func Classify(person models.Person, platform models.Platform, engaged, total int) models.Status {
	if person.Exception {
		return models.StatusComplete
	}
	if NormalizeHandle(person.Handle(platform)) == "" {
		return models.StatusNoHandle
	}
	if total == 0 {
		return models.StatusNoContent
	}
	if engaged >= total {
		return models.StatusComplete
	}
	if engaged > 0 {
		return models.StatusPartial
	}
	return models.StatusNone
}
