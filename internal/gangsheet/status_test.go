package gangsheet

import (
	"testing"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
)

func TestProgressFor(t *testing.T) {
	cases := []struct {
		name      string
		status    string
		processed int
		total     int
		want      int
	}{
		{"pending", types.StatusPending, 0, 0, 0},
		{"fetching", types.StatusFetchingDesigns, 0, 10, 10},
		{"calculating", types.StatusCalculating, 0, 10, 30},
		{"generating none done", types.StatusGenerating, 0, 10, 30},
		{"generating half", types.StatusGenerating, 5, 10, 55},
		{"generating floor", types.StatusGenerating, 1, 3, 46},
		{"generating all", types.StatusGenerating, 10, 10, 80},
		{"generating zero total", types.StatusGenerating, 0, 0, 80},
		{"uploading", types.StatusUploading, 10, 10, 90},
		{"completed", types.StatusCompleted, 10, 10, 100},
		{"failed", types.StatusFailed, 5, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressFor(tc.status, tc.processed, tc.total); got != tc.want {
				t.Fatalf("ProgressFor(%s, %d, %d) = %d, want %d",
					tc.status, tc.processed, tc.total, got, tc.want)
			}
		})
	}
}

func TestProgressForIsMonotonicThroughGenerating(t *testing.T) {
	total := 7
	prev := ProgressFor(types.StatusGenerating, 0, total)
	for p := 1; p <= total; p++ {
		got := ProgressFor(types.StatusGenerating, p, total)
		if got < prev {
			t.Fatalf("progress went backwards: %d -> %d at processed=%d", prev, got, p)
		}
		prev = got
	}
	if upload := ProgressFor(types.StatusUploading, total, total); upload < prev {
		t.Fatal("uploading progress must not be below generating progress")
	}
}
