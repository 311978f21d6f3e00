package process

// Notes:
// - Real kill behavior is covered by the diagram engine integration tests;
//   unit tests only use PIDs that cannot belong to a live process.

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	// Must not panic for a PID that does not exist.
	KillProcessGroup(999999999)
}

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	// 0 and negatives are ignored; reaching the end means the test
	// process group survived.
	for _, pid := range []int{0, -1} {
		KillProcessGroup(pid)
	}
}
