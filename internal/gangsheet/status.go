package gangsheet

import (
	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
)

// ProgressFor derives the progress percentage from status and counters.
// Derived, never stored: the persisted row carries only status and the
// two counters.
//
//	PENDING           0
//	FETCHING_DESIGNS  10
//	CALCULATING       30
//	GENERATING        30 + floor(50 * processed/total), 80 when total == 0
//	UPLOADING         90
//	COMPLETED         100
//	FAILED            0
func ProgressFor(status string, processedDesigns, totalDesigns int) int {
	switch status {
	case types.StatusPending:
		return 0
	case types.StatusFetchingDesigns:
		return 10
	case types.StatusCalculating:
		return 30
	case types.StatusGenerating:
		if totalDesigns == 0 {
			return 80
		}
		return 30 + (50*processedDesigns)/totalDesigns
	case types.StatusUploading:
		return 90
	case types.StatusCompleted:
		return 100
	default:
		return 0
	}
}
