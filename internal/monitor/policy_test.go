package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldNotifyTruthTable(t *testing.T) {
	tests := []struct {
		changed, firstRun, hasAvailable             bool
		notifyOnFirstRun, notifyWhenAvailableAlways bool
		want                                        bool
	}{
		// No change never notifies, whatever the flags say.
		{false, false, true, true, true, false},
		{false, true, true, true, false, false},
		{false, false, false, false, false, false},

		// First run suppressed unless notifyOnFirstRun.
		{true, true, true, false, true, false},
		{true, true, true, true, true, true},
		{true, true, false, false, false, false},
		{true, true, false, true, false, true},

		// Steady state: changed, not first run.
		{true, false, true, false, true, true},
		{true, false, true, false, false, true},
		// Available set went empty: only notifyWhenAvailableAlways=false alerts.
		{true, false, false, false, true, false},
		{true, false, false, false, false, true},
	}
	for _, tc := range tests {
		name := fmt.Sprintf("changed=%v first=%v avail=%v onFirst=%v always=%v",
			tc.changed, tc.firstRun, tc.hasAvailable, tc.notifyOnFirstRun, tc.notifyWhenAvailableAlways)
		t.Run(name, func(t *testing.T) {
			got := ShouldNotify(tc.changed, tc.firstRun, tc.hasAvailable,
				tc.notifyOnFirstRun, tc.notifyWhenAvailableAlways)
			assert.Equal(t, tc.want, got)
		})
	}
}
