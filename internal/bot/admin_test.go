package bot

import (
	"testing"

	"github.com/m3rciful/statusbot/internal/config"
	"github.com/m3rciful/statusbot/internal/session"
)

// sha256("hunter2")
const hunter2Digest = "f52fbd32b2b3b86ff88ef6c490628285f482af15ddcb29541f94bcf526a3f6c7"

func testBot(digest string) *Bot {
	return &Bot{
		cfg: &config.Config{
			Admin: config.AdminConfig{UserID: 42, PasswordHash: digest},
		},
		sessions: session.NewStore(),
	}
}

func TestVerifyAdminPassword(t *testing.T) {
	b := testBot(hunter2Digest)

	if !b.verifyAdminPassword("hunter2") {
		t.Fatal("correct password rejected")
	}
	if b.verifyAdminPassword("hunter3") {
		t.Fatal("wrong password accepted")
	}
	if b.verifyAdminPassword("") {
		t.Fatal("empty password accepted")
	}
}

func TestVerifyAdminPasswordDigestCase(t *testing.T) {
	b := testBot(" F52FBD32B2B3B86FF88EF6C490628285F482AF15DDCB29541F94BCF526A3F6C7 ")
	if !b.verifyAdminPassword("hunter2") {
		t.Fatal("uppercase digest with whitespace must still match")
	}
}

func TestIsAuthenticatedAdmin(t *testing.T) {
	b := testBot(hunter2Digest)

	if b.isAuthenticatedAdmin(42) {
		t.Fatal("admin must not be authenticated before login")
	}
	b.sessions.SetAdmin(42, true)
	if !b.isAuthenticatedAdmin(42) {
		t.Fatal("admin must be authenticated after login")
	}
	if b.isAuthenticatedAdmin(7) {
		t.Fatal("non-admin id must never authenticate")
	}

	b.sessions.SetAdmin(42, false)
	if b.isAuthenticatedAdmin(42) {
		t.Fatal("logout must clear authentication")
	}
}
