package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/statusbot/internal/model"
	"github.com/m3rciful/statusbot/internal/repository"
)

// --- in-memory fakes -------------------------------------------------------

type fakeUsers struct {
	mu sync.Mutex
	m  map[int64]*model.UserConfig
}

func newFakeUsers() *fakeUsers { return &fakeUsers{m: map[int64]*model.UserConfig{}} }

func (f *fakeUsers) Get(_ context.Context, userID int64) (*model.UserConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.m[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cfg
	return &cp, nil
}

func (f *fakeUsers) Upsert(_ context.Context, cfg *model.UserConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cfg
	if cp.ServerInfo == "" {
		cp.ServerInfo = "сервера"
	}
	f.m[cfg.UserID] = &cp
	return nil
}

func (f *fakeUsers) UpdateLabel(_ context.Context, userID int64, label string) error {
	return f.patch(userID, func(c *model.UserConfig) { c.ServerInfo = label })
}

func (f *fakeUsers) UpdateTimezone(_ context.Context, userID int64, tz string) error {
	return f.patch(userID, func(c *model.UserConfig) { c.Timezone = tz })
}

func (f *fakeUsers) UpdateMessageID(_ context.Context, userID, messageID int64) error {
	return f.patch(userID, func(c *model.UserConfig) {
		c.MessageID = sql.NullInt64{Int64: messageID, Valid: true}
	})
}

func (f *fakeUsers) patch(userID int64, fn func(*model.UserConfig)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.m[userID]
	if !ok {
		return repository.ErrNotFound
	}
	fn(cfg)
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.m, userID)
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.UserConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.UserConfig, 0, len(f.m))
	for _, cfg := range f.m {
		out = append(out, *cfg)
	}
	return out, nil
}

func (f *fakeUsers) ListOverview(_ context.Context) ([]model.UserOverview, error) {
	list, _ := f.List(context.Background())
	out := make([]model.UserOverview, 0, len(list))
	for _, cfg := range list {
		out = append(out, model.UserOverview{UserConfig: cfg})
	}
	return out, nil
}

type fakeStatuses struct {
	mu   sync.Mutex
	rows []model.StatusEvent
}

func (f *fakeStatuses) Append(_ context.Context, userID int64, status model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, model.StatusEvent{
		ID:        int64(len(f.rows) + 1),
		UserID:    userID,
		Status:    status,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStatuses) History(_ context.Context, userID int64, limit int) ([]model.StatusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StatusEvent
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeStatuses) LatestCounts(_ context.Context) (map[model.Status]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := map[int64]model.Status{}
	for _, r := range f.rows {
		latest[r.UserID] = r.Status
	}
	counts := map[model.Status]int{}
	for _, st := range latest {
		counts[st]++
	}
	return counts, nil
}

func (f *fakeStatuses) DeleteByUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeStatuses) countFor(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

type edge struct{ sub, target int64 }

type fakeSubs struct {
	mu    sync.Mutex
	edges []edge
}

func (f *fakeSubs) Exists(_ context.Context, subscriberID, targetUserID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.edges {
		if e.sub == subscriberID && e.target == targetUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubs) Add(_ context.Context, subscriberID, targetUserID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = append(f.edges, edge{subscriberID, targetUserID})
	return nil
}

func (f *fakeSubs) Remove(_ context.Context, subscriberID, targetUserID int64) error {
	f.filter(func(e edge) bool { return e.sub != subscriberID || e.target != targetUserID })
	return nil
}

func (f *fakeSubs) RemoveBySubscriber(_ context.Context, subscriberID int64) error {
	f.filter(func(e edge) bool { return e.sub != subscriberID })
	return nil
}

func (f *fakeSubs) RemoveByUser(_ context.Context, userID int64) error {
	f.filter(func(e edge) bool { return e.sub != userID && e.target != userID })
	return nil
}

func (f *fakeSubs) filter(keep func(edge) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.edges[:0]
	for _, e := range f.edges {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	f.edges = kept
}

func (f *fakeSubs) Subscribers(_ context.Context, targetUserID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for _, e := range f.edges {
		if e.target == targetUserID {
			out = append(out, e.sub)
		}
	}
	return out, nil
}

func (f *fakeSubs) Targets(_ context.Context, subscriberID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for _, e := range f.edges {
		if e.sub == subscriberID {
			out = append(out, e.target)
		}
	}
	return out, nil
}

func (f *fakeSubs) CountByTarget(_ context.Context, targetUserID int64) (int, error) {
	subs, _ := f.Subscribers(context.Background(), targetUserID)
	return len(subs), nil
}

type sentMsg struct {
	chatID int64
	text   string
}

type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentMsg
	edits    []sentMsg
	nextID   int64
	sendErr  error
	editErr  error
	failSend map[int64]bool
}

func (g *fakeGateway) Send(_ context.Context, chatID, _ int64, text string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	if g.failSend[chatID] {
		return 0, fmt.Errorf("gateway: chat %d unreachable", chatID)
	}
	g.sent = append(g.sent, sentMsg{chatID: chatID, text: text})
	g.nextID++
	return g.nextID + 100, nil
}

func (g *fakeGateway) Edit(_ context.Context, chatID, _ int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editErr != nil {
		return g.editErr
	}
	g.edits = append(g.edits, sentMsg{chatID: chatID, text: text})
	return nil
}

func (g *fakeGateway) sentTo(chatID int64) []sentMsg {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentMsg
	for _, m := range g.sent {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// --- fixtures ---------------------------------------------------------------

const (
	ownerID   int64 = 100
	friendID  int64 = 200
	testGroup int64 = -100123
)

func newFixture(t *testing.T) (*Service, *fakeUsers, *fakeStatuses, *fakeSubs, *fakeGateway) {
	t.Helper()
	users := newFakeUsers()
	statuses := &fakeStatuses{}
	subs := &fakeSubs{}
	gw := &fakeGateway{}
	svc := New(users, statuses, subs, gw)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, users, statuses, subs, gw
}

func configureOwner(t *testing.T, users *fakeUsers, name string) {
	t.Helper()
	err := users.Upsert(context.Background(), &model.UserConfig{
		UserID:    ownerID,
		GroupID:   testGroup,
		MessageID: sql.NullInt64{Int64: 555, Valid: true},
		GroupName: name,
		Timezone:  "UTC",
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
}

// --- tests ------------------------------------------------------------------

func TestRecordStatusEditsCard(t *testing.T) {
	svc, users, statuses, _, gw := newFixture(t)
	configureOwner(t, users, "Alpha")

	notified, err := svc.RecordStatus(context.Background(), ownerID, model.StatusOn)
	if err != nil {
		t.Fatalf("RecordStatus: %v", err)
	}
	if notified != 0 {
		t.Fatalf("notified = %d, want 0", notified)
	}
	if len(gw.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(gw.edits))
	}
	card := gw.edits[0].text
	for _, want := range []string{"🟢", "ВКЛЮЧЕН", "Alpha", "Подписчиков: 0", "12:00:00 01.03.2024"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
	if got := statuses.countFor(ownerID); got != 1 {
		t.Fatalf("history rows = %d, want 1", got)
	}
}

func TestRecordStatusNotifiesSubscribers(t *testing.T) {
	svc, users, statuses, _, gw := newFixture(t)
	configureOwner(t, users, "Alpha")

	if err := svc.Subscribe(context.Background(), friendID, ownerID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	notified, err := svc.RecordStatus(context.Background(), ownerID, model.StatusOff)
	if err != nil {
		t.Fatalf("RecordStatus: %v", err)
	}
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}
	msgs := gw.sentTo(friendID)
	if len(msgs) != 1 {
		t.Fatalf("subscriber messages = %d, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0].text, "🔴 ВЫКЛЮЧЕН") {
		t.Errorf("notification missing status label:\n%s", msgs[0].text)
	}
	if !strings.Contains(gw.edits[len(gw.edits)-1].text, "Подписчиков: 1") {
		t.Errorf("card does not show one subscriber:\n%s", gw.edits[len(gw.edits)-1].text)
	}
	if got := statuses.countFor(ownerID); got != 1 {
		t.Fatalf("history rows = %d, want 1", got)
	}
}

func TestRecordStatusNotConfigured(t *testing.T) {
	svc, _, statuses, _, gw := newFixture(t)

	_, err := svc.RecordStatus(context.Background(), ownerID, model.StatusOn)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if got := statuses.countFor(ownerID); got != 0 {
		t.Fatalf("history rows = %d, want 0", got)
	}
	if len(gw.edits) != 0 || len(gw.sent) != 0 {
		t.Fatal("no gateway traffic expected")
	}
}

func TestRecordStatusRepeatAppends(t *testing.T) {
	svc, users, statuses, _, _ := newFixture(t)
	configureOwner(t, users, "Alpha")

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordStatus(context.Background(), ownerID, model.StatusPaused); err != nil {
			t.Fatalf("RecordStatus #%d: %v", i, err)
		}
	}
	if got := statuses.countFor(ownerID); got != 3 {
		t.Fatalf("history rows = %d, want 3", got)
	}
}

func TestRecordStatusEditFailureKeepsHistory(t *testing.T) {
	svc, users, statuses, subs, gw := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = subs.Add(context.Background(), friendID, ownerID)
	gw.editErr = errors.New("message to edit not found")

	notified, err := svc.RecordStatus(context.Background(), ownerID, model.StatusOn)
	if err == nil {
		t.Fatal("expected edit error")
	}
	if notified != 0 {
		t.Fatalf("notified = %d, want 0", notified)
	}
	if len(gw.sentTo(friendID)) != 0 {
		t.Fatal("no notifications expected after failed edit")
	}
	if got := statuses.countFor(ownerID); got != 1 {
		t.Fatalf("history rows = %d, want 1 (kept despite failed edit)", got)
	}
}

func TestRecordStatusWithoutCard(t *testing.T) {
	svc, users, statuses, _, _ := newFixture(t)
	err := users.Upsert(context.Background(), &model.UserConfig{
		UserID:    ownerID,
		GroupID:   testGroup,
		GroupName: "Alpha",
		Timezone:  "UTC",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.RecordStatus(context.Background(), ownerID, model.StatusOn)
	if !errors.Is(err, ErrNoStatusMessage) {
		t.Fatalf("err = %v, want ErrNoStatusMessage", err)
	}
	if got := statuses.countFor(ownerID); got != 1 {
		t.Fatalf("history rows = %d, want 1", got)
	}
}

func TestNotifyFanOutSkipsUnreachable(t *testing.T) {
	svc, users, _, subs, gw := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = subs.Add(context.Background(), friendID, ownerID)
	_ = subs.Add(context.Background(), 300, ownerID)
	gw.failSend = map[int64]bool{friendID: true}

	notified, err := svc.RecordStatus(context.Background(), ownerID, model.StatusOn)
	if err != nil {
		t.Fatalf("RecordStatus: %v", err)
	}
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}
	if len(gw.sentTo(300)) != 1 {
		t.Fatal("reachable subscriber must still be notified")
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	svc, users, _, subs, _ := newFixture(t)
	configureOwner(t, users, "Alpha")

	if err := svc.Subscribe(context.Background(), friendID, ownerID); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	if err := svc.Subscribe(context.Background(), friendID, ownerID); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("err = %v, want ErrAlreadySubscribed", err)
	}
	if len(subs.edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(subs.edges))
	}
}

func TestSubscribeUnconfiguredTarget(t *testing.T) {
	svc, _, _, _, _ := newFixture(t)
	if err := svc.Subscribe(context.Background(), friendID, ownerID); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSubscribeSurvivesOwnerNoticeFailure(t *testing.T) {
	svc, users, _, subs, gw := newFixture(t)
	configureOwner(t, users, "Alpha")
	gw.failSend = map[int64]bool{ownerID: true}

	if err := svc.Subscribe(context.Background(), friendID, ownerID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if len(subs.edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(subs.edges))
	}
}

func TestUnsubscribeAllIsOneSided(t *testing.T) {
	svc, users, _, subs, _ := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = users.Upsert(context.Background(), &model.UserConfig{
		UserID: friendID, GroupID: -200, GroupName: "Beta", Timezone: "UTC",
		MessageID: sql.NullInt64{Int64: 7, Valid: true},
	})
	// friend follows owner, and owner follows friend back.
	_ = subs.Add(context.Background(), friendID, ownerID)
	_ = subs.Add(context.Background(), ownerID, friendID)

	if err := svc.UnsubscribeAll(context.Background(), friendID); err != nil {
		t.Fatalf("UnsubscribeAll: %v", err)
	}
	if n, _ := subs.CountByTarget(context.Background(), ownerID); n != 0 {
		t.Fatalf("owner still has %d subscribers, want 0", n)
	}
	if n, _ := subs.CountByTarget(context.Background(), friendID); n != 1 {
		t.Fatalf("inbound edge to friend dropped; subscribers = %d, want 1", n)
	}
}

func TestQuickSetup(t *testing.T) {
	svc, users, _, _, gw := newFixture(t)

	msgID, err := svc.QuickSetup(context.Background(), ownerID, testGroup)
	if err != nil {
		t.Fatalf("QuickSetup: %v", err)
	}
	if msgID == 0 {
		t.Fatal("message id must be set")
	}
	if len(gw.sentTo(testGroup)) != 1 {
		t.Fatalf("group messages = %d, want 1", len(gw.sentTo(testGroup)))
	}
	cfg, err := users.Get(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("stored config missing: %v", err)
	}
	if !cfg.MessageID.Valid || cfg.MessageID.Int64 != msgID {
		t.Fatalf("stored message id = %+v, want %d", cfg.MessageID, msgID)
	}
	if want := fmt.Sprintf("Группа %d", testGroup); cfg.GroupName != want {
		t.Fatalf("group name = %q, want %q", cfg.GroupName, want)
	}
}

func TestQuickSetupSendFailure(t *testing.T) {
	svc, users, _, _, gw := newFixture(t)
	gw.sendErr = errors.New("chat not found")

	if _, err := svc.QuickSetup(context.Background(), ownerID, testGroup); err == nil {
		t.Fatal("expected send error")
	}
	if _, err := users.Get(context.Background(), ownerID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("config must not be stored after failed send")
	}
}

func TestSetTimezone(t *testing.T) {
	svc, users, _, _, _ := newFixture(t)
	configureOwner(t, users, "Alpha")

	if err := svc.SetTimezone(context.Background(), ownerID, "Europe/Moscow"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	cfg, _ := users.Get(context.Background(), ownerID)
	if cfg.Timezone != "Europe/Moscow" {
		t.Fatalf("timezone = %q", cfg.Timezone)
	}
	if err := svc.SetTimezone(context.Background(), ownerID, "Mars/Olympus"); !errors.Is(err, ErrBadTimezone) {
		t.Fatalf("err = %v, want ErrBadTimezone", err)
	}
}

func TestResetCascades(t *testing.T) {
	svc, users, statuses, subs, _ := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = statuses.Append(context.Background(), ownerID, model.StatusOn)
	_ = subs.Add(context.Background(), friendID, ownerID)
	_ = subs.Add(context.Background(), ownerID, friendID)

	if err := svc.Reset(context.Background(), ownerID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := users.Get(context.Background(), ownerID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("config must be gone")
	}
	if got := statuses.countFor(ownerID); got != 0 {
		t.Fatalf("history rows = %d, want 0", got)
	}
	if len(subs.edges) != 0 {
		t.Fatalf("edges = %d, want 0 (both directions removed)", len(subs.edges))
	}
}

func TestResetUnconfiguredUser(t *testing.T) {
	svc, _, _, _, _ := newFixture(t)
	if err := svc.Reset(context.Background(), ownerID); err != nil {
		t.Fatalf("Reset on fresh user: %v", err)
	}
}

func TestBroadcastCountsSuccesses(t *testing.T) {
	svc, users, _, _, gw := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = users.Upsert(context.Background(), &model.UserConfig{UserID: friendID, GroupID: -200, GroupName: "Beta", Timezone: "UTC"})
	_ = users.Upsert(context.Background(), &model.UserConfig{UserID: 300, GroupID: -300, GroupName: "Gamma", Timezone: "UTC"})
	gw.failSend = map[int64]bool{friendID: true}

	sent, err := svc.Broadcast(context.Background(), "всем привет")
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
}

func TestGlobalStats(t *testing.T) {
	svc, users, statuses, _, _ := newFixture(t)
	configureOwner(t, users, "Alpha")
	_ = statuses.Append(context.Background(), ownerID, model.StatusOff)
	_ = statuses.Append(context.Background(), ownerID, model.StatusOn)
	_ = statuses.Append(context.Background(), friendID, model.StatusOff)

	counts, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("GlobalStats: %v", err)
	}
	if counts[model.StatusOn] != 1 || counts[model.StatusOff] != 1 {
		t.Fatalf("counts = %v, want one on and one off", counts)
	}

	text := RenderStats(counts, time.Unix(0, 0), time.UTC)
	if !strings.Contains(text, "Всего объектов: 2") {
		t.Errorf("stats missing total:\n%s", text)
	}
	if !strings.Contains(text, "🟢 1") || !strings.Contains(text, "🔴 1") {
		t.Errorf("stats missing per-status counts:\n%s", text)
	}
}

func TestSwitch(t *testing.T) {
	w := NewSwitch()
	if !w.Enabled() {
		t.Fatal("fresh switch must be enabled")
	}
	w.Disable(1, "техработы")
	if w.Enabled() {
		t.Fatal("switch must be disabled")
	}
	if w.Reason() != "техработы" {
		t.Fatalf("reason = %q", w.Reason())
	}
	w.Enable(1)
	if !w.Enabled() || w.Reason() != "" {
		t.Fatal("switch must be enabled with cleared reason")
	}
}
