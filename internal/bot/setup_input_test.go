package bot

import (
	"errors"
	"testing"
)

func TestParseGroupSetup(t *testing.T) {
	t.Run("valid without thread", func(t *testing.T) {
		got, err := parseGroupSetup("-100123456789,,123,Мой Сервер")
		if err != nil {
			t.Fatalf("parseGroupSetup: %v", err)
		}
		if got.GroupID != -100123456789 || got.MessageID != 123 || got.Label != "Мой Сервер" {
			t.Fatalf("parsed = %+v", got)
		}
		if got.ThreadID != nil {
			t.Fatalf("thread id = %v, want nil", *got.ThreadID)
		}
	})

	t.Run("valid with thread", func(t *testing.T) {
		got, err := parseGroupSetup("-100123456789,10,123,Мой Сервер")
		if err != nil {
			t.Fatalf("parseGroupSetup: %v", err)
		}
		if got.ThreadID == nil || *got.ThreadID != 10 {
			t.Fatalf("thread id = %v, want 10", got.ThreadID)
		}
	})

	t.Run("None thread means no thread", func(t *testing.T) {
		got, err := parseGroupSetup("-100123456789,None,123,Сервер")
		if err != nil {
			t.Fatalf("parseGroupSetup: %v", err)
		}
		if got.ThreadID != nil {
			t.Fatalf("thread id = %v, want nil", *got.ThreadID)
		}
	})

	t.Run("too few fields", func(t *testing.T) {
		if _, err := parseGroupSetup("-100123,10,123"); !errors.Is(err, errSetupFieldCount) {
			t.Fatalf("err = %v, want field count diagnostic", err)
		}
	})

	t.Run("positive group id", func(t *testing.T) {
		if _, err := parseGroupSetup("100123,10,123,Сервер"); !errors.Is(err, errSetupGroupID) {
			t.Fatalf("err = %v, want negative-id diagnostic", err)
		}
	})

	t.Run("zero group id", func(t *testing.T) {
		if _, err := parseGroupSetup("0,,123,Сервер"); !errors.Is(err, errSetupGroupID) {
			t.Fatalf("err = %v, want negative-id diagnostic", err)
		}
	})

	t.Run("empty label", func(t *testing.T) {
		if _, err := parseGroupSetup("-100123,,123,   "); !errors.Is(err, errSetupEmptyLabel) {
			t.Fatalf("err = %v, want empty-label diagnostic", err)
		}
	})

	t.Run("non-numeric group id", func(t *testing.T) {
		_, err := parseGroupSetup("abc,,123,Сервер")
		if err == nil || errors.Is(err, errSetupFieldCount) {
			t.Fatalf("err = %v, want numeric diagnostic", err)
		}
	})

	t.Run("non-numeric message id", func(t *testing.T) {
		if _, err := parseGroupSetup("-100123,,abc,Сервер"); err == nil {
			t.Fatal("expected numeric diagnostic")
		}
	})

	t.Run("non-numeric thread id", func(t *testing.T) {
		if _, err := parseGroupSetup("-100123,xyz,123,Сервер"); err == nil {
			t.Fatal("expected numeric diagnostic")
		}
	})
}

func TestParseQuickSetupGroupID(t *testing.T) {
	got, err := parseQuickSetupGroupID(" -100987654321 ")
	if err != nil {
		t.Fatalf("parseQuickSetupGroupID: %v", err)
	}
	if got != -100987654321 {
		t.Fatalf("group id = %d", got)
	}

	if _, err := parseQuickSetupGroupID("not-a-number"); !errors.Is(err, errQuickSetupNotNumber) {
		t.Fatalf("err = %v, want not-a-number", err)
	}
	if _, err := parseQuickSetupGroupID("100987"); !errors.Is(err, errQuickSetupBadID) {
		t.Fatalf("err = %v, want negative-id", err)
	}
	if _, err := parseQuickSetupGroupID("0"); !errors.Is(err, errQuickSetupBadID) {
		t.Fatalf("err = %v, want negative-id", err)
	}
}
