package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestRegistryDuplicateCallbackKeepsFirst(t *testing.T) {
	r := NewRegistry()
	first := false
	r.RegisterCallback("settings", func(tele.Context) error { first = true; return nil })
	r.RegisterCallback("settings", func(tele.Context) error { return nil })

	h, ok := r.GetCallback("settings")
	if !ok {
		t.Fatal("callback missing")
	}
	_ = h(nil)
	if !first {
		t.Fatal("duplicate registration replaced the original handler")
	}
}

func TestRegistryLookupCommandAlias(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/restart", Command{
		Handler:     func(tele.Context) error { return nil },
		Description: "reset",
		Aliases:     []string{"/reset", "перезапустить", "сбросить"},
	})

	for _, input := range []string{"/restart", "/reset", "перезапустить", "Сбросить"} {
		key, _, ok := r.LookupCommand(input)
		if !ok {
			t.Fatalf("LookupCommand(%q) not found", input)
		}
		if key != "/restart" {
			t.Fatalf("LookupCommand(%q) = %q, want /restart", input, key)
		}
	}
	if _, _, ok := r.LookupCommand("ничего"); ok {
		t.Fatal("unknown text must not resolve to a command")
	}
}

func TestRegistryListCommandsSkipsHiddenAndAdmin(t *testing.T) {
	r := NewRegistry()
	nop := func(tele.Context) error { return nil }
	r.RegisterCommand("/start", Command{Handler: nop, Description: "start"})
	r.RegisterCommand("/admin", Command{Handler: nop, Description: "admin", AdminOnly: true})
	r.RegisterCommand("/debug", Command{Handler: nop, Description: "debug", Hidden: true})

	list := r.ListCommands()
	if len(list) != 1 || list[0].Text != "start" {
		t.Fatalf("ListCommands = %v, want only start", list)
	}
}

func TestParseCallback(t *testing.T) {
	cases := []struct {
		name        string
		cb          *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "subscribe", Data: "200"}, "subscribe", "200"},
		{"raw with payload", &tele.Callback{Data: "\fstatus|on"}, "status", "on"},
		{"raw bare key", &tele.Callback{Data: "back_to_main"}, "back_to_main", ""},
	}
	for _, tc := range cases {
		key, payload := parseCallback(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Errorf("%s: parseCallback = (%q, %q), want (%q, %q)", tc.name, key, payload, tc.key, tc.payload)
		}
	}
}
