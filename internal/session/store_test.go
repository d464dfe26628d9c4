package session

import "testing"

func TestStoreStateLifecycle(t *testing.T) {
	s := NewStore()

	if got := s.Get(1); got != StateIdle {
		t.Fatalf("fresh store state: %q", got)
	}
	if s.InProgress(1) {
		t.Fatal("fresh user should not be in progress")
	}

	s.Set(1, StateAwaitTimezone)
	if got := s.Get(1); got != StateAwaitTimezone {
		t.Fatalf("state after set: %q", got)
	}
	if !s.InProgress(1) {
		t.Fatal("expected in progress")
	}

	// Transitions overwrite, never stack.
	s.Set(1, StateAwaitLabel)
	if got := s.Get(1); got != StateAwaitLabel {
		t.Fatalf("state after overwrite: %q", got)
	}

	s.Clear(1)
	if got := s.Get(1); got != StateIdle {
		t.Fatalf("state after clear: %q", got)
	}
}

func TestStoreClearKeepsAdminFlag(t *testing.T) {
	s := NewStore()
	s.SetAdmin(7, true)
	s.Set(7, StateAwaitAdminBroadcast)

	s.Clear(7)
	if !s.IsAdmin(7) {
		t.Fatal("clear must keep admin flag")
	}
	if got := s.Get(7); got != StateIdle {
		t.Fatalf("state after clear: %q", got)
	}
}

func TestStoreResetWipesEverything(t *testing.T) {
	s := NewStore()
	s.SetAdmin(7, true)
	s.Set(7, StateAwaitDisableReason)

	s.Reset(7)
	if s.IsAdmin(7) {
		t.Fatal("reset must drop admin flag")
	}
	if got := s.Get(7); got != StateIdle {
		t.Fatalf("state after reset: %q", got)
	}
}

func TestStoreUsersAreIndependent(t *testing.T) {
	s := NewStore()
	s.Set(1, StateAwaitGroupSettings)
	s.Set(2, StateAwaitQuickSetupGroupID)

	s.Reset(1)
	if got := s.Get(2); got != StateAwaitQuickSetupGroupID {
		t.Fatalf("user 2 affected by user 1 reset: %q", got)
	}
}
