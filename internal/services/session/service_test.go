package session_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"paylink/internal/domain"
	"paylink/internal/services/keystore"
	"paylink/internal/services/session"
	"paylink/internal/store"
)

func newSession(t *testing.T, home string) *session.Service {
	t.Helper()
	svc, _ := newSessionWithKeys(t, home)
	return svc
}

func newSessionWithKeys(t *testing.T, home string) (*session.Service, *keystore.Service) {
	t.Helper()
	b, err := store.OpenBackend(store.KindFile, home, "")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	ps := store.NewProfileStore(b)
	ks := keystore.New(ps, zerolog.Nop())
	return session.New(ks, ps, zerolog.Nop()), ks
}

func page(status domain.StatusKey, n int, ids ...string) domain.SendersPage {
	p := domain.SendersPage{Status: status, Page: n, Limit: 10, Total: len(ids), TotalPages: 1}
	for _, id := range ids {
		p.Items = append(p.Items, domain.Sender{ID: id, BusinessName: "biz " + id, Status: status})
	}
	return p
}

func ptr[T any](v T) *T { return &v }

func TestGetUserData_FreshProfile(t *testing.T) {
	svc := newSession(t, t.TempDir())

	data, err := svc.GetUserData()
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.IsLoggedIn {
		t.Fatal("fresh profile must not be logged in")
	}
	if data.DeviceID == "" {
		t.Fatal("deviceid empty")
	}
	if data.Client.PublicKey.IsZero() {
		t.Fatal("client public key empty")
	}
	if data.Authorization != "" || data.User != nil || len(data.SendersTableData) != 0 {
		t.Fatalf("fresh profile carries business data: %+v", data)
	}
}

func TestGetUserData_ReturnsCopy(t *testing.T) {
	svc := newSession(t, t.TempDir())
	if err := svc.UpdateSession(domain.SessionPatch{
		User:             &domain.User{ID: "u1", Email: "a@b.c"},
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: page(domain.StatusActive, 1, "s1")},
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	data, _ := svc.GetUserData()
	data.User.Email = "mutated"
	data.SendersTableData[domain.StatusActive] = domain.SendersPage{}

	again, _ := svc.GetUserData()
	if again.User.Email != "a@b.c" {
		t.Fatal("caller mutated live user")
	}
	if len(again.SendersTableData[domain.StatusActive].Items) != 1 {
		t.Fatal("caller mutated live senders table")
	}
}

func TestUpdateSession_MergesSendersTablePerKey(t *testing.T) {
	svc := newSession(t, t.TempDir())

	active := page(domain.StatusActive, 1, "a1", "a2")
	draft := page(domain.StatusDraft, 1, "d1")
	if err := svc.UpdateSession(domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: active},
	}); err != nil {
		t.Fatalf("update ACTIVE: %v", err)
	}
	if err := svc.UpdateSession(domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusDraft: draft},
	}); err != nil {
		t.Fatalf("update DRAFT: %v", err)
	}

	data, _ := svc.GetUserData()
	if got := data.SendersTableData[domain.StatusActive]; len(got.Items) != 2 || got.Items[0].ID != "a1" {
		t.Fatalf("ACTIVE lost after DRAFT update: %+v", got)
	}
	if got := data.SendersTableData[domain.StatusDraft]; len(got.Items) != 1 || got.Items[0].ID != "d1" {
		t.Fatalf("DRAFT missing: %+v", got)
	}
}

func TestUpdateSession_ShallowMergeKeepsOtherFields(t *testing.T) {
	svc := newSession(t, t.TempDir())

	if err := svc.UpdateSession(domain.SessionPatch{
		Authorization: ptr("tok"),
		User:          &domain.User{ID: "u1"},
		IsLoggedIn:    ptr(true),
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if err := svc.UpdateSession(domain.SessionPatch{
		Wallets: &[]domain.Wallet{{ID: "w1", Currency: "USD"}},
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	data, _ := svc.GetUserData()
	if data.Authorization != "tok" || data.User == nil || !data.IsLoggedIn {
		t.Fatalf("wallet update clobbered login fields: %+v", data)
	}
	if len(data.Wallets) != 1 {
		t.Fatalf("wallets = %+v", data.Wallets)
	}
}

func TestUpdateSession_AddSenderDraft(t *testing.T) {
	svc := newSession(t, t.TempDir())

	draft := json.RawMessage(`{"businessName":"Acme"}`)
	if err := svc.UpdateSession(domain.SessionPatch{AddSender: draft}); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	data, _ := svc.GetUserData()
	if string(data.AddSender) != string(draft) {
		t.Fatalf("draft = %s", data.AddSender)
	}

	if err := svc.UpdateSession(domain.SessionPatch{AddSender: json.RawMessage("null")}); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	data, _ = svc.GetUserData()
	if data.AddSender != nil {
		t.Fatalf("draft not cleared: %s", data.AddSender)
	}
}

func TestUpdateSession_VisibleToNewInstance(t *testing.T) {
	home := t.TempDir()
	first := newSession(t, home)
	firstData, _ := first.GetUserData()

	if err := first.UpdateSession(domain.SessionPatch{
		Authorization: ptr("tok"),
		IsLoggedIn:    ptr(true),
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	second := newSession(t, home)
	data, err := second.GetUserData()
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.Authorization != "tok" || !data.IsLoggedIn {
		t.Fatalf("update not persisted: %+v", data)
	}
	if data.DeviceID != firstData.DeviceID {
		t.Fatal("device identity changed across instances")
	}
}

func TestLogout_KeepsDeviceIdentity(t *testing.T) {
	svc := newSession(t, t.TempDir())
	before, _ := svc.GetUserData()

	if err := svc.UpdateSession(domain.SessionPatch{
		Authorization:    ptr("tok"),
		User:             &domain.User{ID: "u1"},
		Sender:           &domain.Sender{ID: "s1"},
		Wallets:          &[]domain.Wallet{{ID: "w1"}},
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: page(domain.StatusActive, 1, "s1")},
		AddSender:        json.RawMessage(`{}`),
		IsLoggedIn:       ptr(true),
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	data, _ := svc.GetUserData()
	if data.DeviceID != before.DeviceID || data.Client.PublicKey != before.Client.PublicKey {
		t.Fatal("logout changed device identity")
	}
	if data.IsLoggedIn || data.Authorization != "" || data.User != nil || data.Sender != nil {
		t.Fatalf("identity fields survived logout: %+v", data)
	}
	if len(data.Wallets) != 0 || len(data.SendersTableData) != 0 || data.AddSender != nil {
		t.Fatalf("business fields survived logout: %+v", data)
	}
}

func TestCommit_LatestIssuedWins(t *testing.T) {
	svc := newSession(t, t.TempDir())
	resource := "senders:" + domain.StatusActive.String()

	t1 := svc.Begin(resource) // page 1
	t2 := svc.Begin(resource) // page 2

	// Page 2 resolves first, then page 1 arrives late.
	applied, err := svc.Commit(t2, domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: page(domain.StatusActive, 2, "p2")},
	})
	if err != nil || !applied {
		t.Fatalf("commit page 2: applied=%v err=%v", applied, err)
	}
	applied, err = svc.Commit(t1, domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: page(domain.StatusActive, 1, "p1")},
	})
	if err != nil {
		t.Fatalf("commit page 1: %v", err)
	}
	if applied {
		t.Fatal("stale page 1 was applied")
	}

	data, _ := svc.GetUserData()
	if got := data.SendersTableData[domain.StatusActive]; got.Page != 2 {
		t.Fatalf("final page = %d, want 2", got.Page)
	}
}

func TestCommit_InOrderResolution(t *testing.T) {
	svc := newSession(t, t.TempDir())
	t1 := svc.Begin("wallets")
	t2 := svc.Begin("wallets")

	if ok, err := svc.Commit(t1, domain.SessionPatch{Wallets: &[]domain.Wallet{{ID: "old"}}}); err != nil || !ok {
		t.Fatalf("commit t1: %v %v", ok, err)
	}
	if ok, err := svc.Commit(t2, domain.SessionPatch{Wallets: &[]domain.Wallet{{ID: "new"}}}); err != nil || !ok {
		t.Fatalf("commit t2: %v %v", ok, err)
	}
	data, _ := svc.GetUserData()
	if data.Wallets[0].ID != "new" {
		t.Fatalf("wallets = %+v", data.Wallets)
	}
}

func TestCommit_ResourcesAreIndependent(t *testing.T) {
	svc := newSession(t, t.TempDir())
	active := svc.Begin("senders:ACTIVE")
	draft := svc.Begin("senders:DRAFT")
	_ = svc.Begin("senders:DRAFT")

	ok, err := svc.Commit(active, domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusActive: page(domain.StatusActive, 1, "a")},
	})
	if err != nil || !ok {
		t.Fatalf("ACTIVE commit rejected: %v %v", ok, err)
	}
	ok, err = svc.Commit(draft, domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{domain.StatusDraft: page(domain.StatusDraft, 1, "d")},
	})
	if err != nil || !ok {
		t.Fatalf("older DRAFT ticket with nothing newer committed was rejected: %v %v", ok, err)
	}
}

func TestCommit_AfterLogoutDiscarded(t *testing.T) {
	svc := newSession(t, t.TempDir())
	ticket := svc.Begin("profile")

	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	ok, err := svc.Commit(ticket, domain.SessionPatch{User: &domain.User{ID: "u1"}})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok {
		t.Fatal("pre-logout result repopulated the session")
	}
	data, _ := svc.GetUserData()
	if data.User != nil {
		t.Fatal("user set after logout")
	}
}

func TestCommit_UnknownTicket(t *testing.T) {
	svc := newSession(t, t.TempDir())
	if _, err := svc.Commit(domain.Ticket{Resource: "x", Seq: 7}, domain.SessionPatch{}); err == nil {
		t.Fatal("expected error for a ticket that was never issued")
	}
}

func TestUpdateSession_Concurrent(t *testing.T) {
	svc := newSession(t, t.TempDir())
	statuses := []domain.StatusKey{domain.StatusActive, domain.StatusDraft, domain.StatusPending, domain.StatusRejected}

	var wg sync.WaitGroup
	for i, st := range statuses {
		wg.Add(1)
		go func(i int, st domain.StatusKey) {
			defer wg.Done()
			err := svc.UpdateSession(domain.SessionPatch{
				SendersTableData: map[domain.StatusKey]domain.SendersPage{st: page(st, 1, fmt.Sprintf("s%d", i))},
			})
			if err != nil {
				t.Errorf("UpdateSession %s: %v", st, err)
			}
		}(i, st)
	}
	wg.Wait()

	data, _ := svc.GetUserData()
	for _, st := range statuses {
		if _, ok := data.SendersTableData[st]; !ok {
			t.Fatalf("%s lost under concurrent updates", st)
		}
	}
}

type failingStore struct{ domain.SessionStore }

func (failingStore) LoadSession() (domain.SessionData, bool, error) {
	return domain.SessionData{}, false, nil
}

func (failingStore) SaveSession(domain.SessionData) error { return errors.New("disk full") }

func TestUpdateSession_PersistFailureLeavesLiveRecord(t *testing.T) {
	b, err := store.OpenBackend(store.KindFile, t.TempDir(), "")
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	ks := keystore.New(store.NewProfileStore(b), zerolog.Nop())
	svc := session.New(ks, failingStore{}, zerolog.Nop())

	if err := svc.UpdateSession(domain.SessionPatch{Authorization: ptr("tok")}); err == nil {
		t.Fatal("expected persist error")
	}
	data, err := svc.GetUserData()
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.Authorization != "" {
		t.Fatal("unpersisted update became visible")
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok := session.TokenExpiry(tok)
	if !ok || !got.Equal(exp) {
		t.Fatalf("TokenExpiry = %v %v, want %v", got, ok, exp)
	}
	if session.TokenExpired(tok, time.Now()) {
		t.Fatal("fresh token reported expired")
	}
	if !session.TokenExpired(tok, exp.Add(time.Second)) {
		t.Fatal("token past exp reported valid")
	}
	if _, ok := session.TokenExpiry("opaque-token"); ok {
		t.Fatal("opaque token produced an expiry")
	}
}

func TestDeviceReset_DropsLiveSession(t *testing.T) {
	home := t.TempDir()
	svc, ks := newSessionWithKeys(t, home)

	if err := svc.UpdateSession(domain.SessionPatch{
		Authorization: ptr("tok-old"),
		User:          &domain.User{ID: "u1"},
		IsLoggedIn:    ptr(true),
	}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	before, _ := svc.GetUserData()
	inflight := svc.Begin("wallets")

	if err := ks.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	id, err := ks.Ensure()
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	data, err := svc.GetUserData()
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if data.DeviceID != id.DeviceID || data.DeviceID == before.DeviceID {
		t.Fatalf("session device = %s, keystore device = %s", data.DeviceID, id.DeviceID)
	}
	if data.Client.PublicKey != id.PublicKey {
		t.Fatal("session still carries the discarded device key")
	}
	if data.IsLoggedIn || data.Authorization != "" || data.User != nil {
		t.Fatalf("token of the discarded device survived: %+v", data)
	}

	ok, err := svc.Commit(inflight, domain.SessionPatch{Wallets: &[]domain.Wallet{{ID: "w-old"}}})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok {
		t.Fatal("result issued for the discarded device was applied")
	}

	// The next write must not resurrect the old session on disk.
	if err := svc.UpdateSession(domain.SessionPatch{AddSender: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	reloaded, err := newSession(t, home).GetUserData()
	if err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if reloaded.DeviceID != id.DeviceID || reloaded.Authorization != "" {
		t.Fatalf("persisted session = %+v", reloaded)
	}
}

func TestDeviceReset_TicketAfterResetCommits(t *testing.T) {
	svc, ks := newSessionWithKeys(t, t.TempDir())
	if _, err := svc.GetUserData(); err != nil {
		t.Fatalf("GetUserData: %v", err)
	}
	if err := ks.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	ticket := svc.Begin("profile")
	ok, err := svc.Commit(ticket, domain.SessionPatch{User: &domain.User{ID: "u2"}})
	if err != nil || !ok {
		t.Fatalf("ticket issued after reset rejected: ok=%v err=%v", ok, err)
	}
}

func TestCommit_SharedResourceLatestWins(t *testing.T) {
	svc := newSession(t, t.TempDir())

	refresh := svc.Begin("user")
	login := svc.Begin("user")

	if ok, err := svc.Commit(login, domain.SessionPatch{
		Authorization: ptr("tok-b"),
		User:          &domain.User{ID: "user-b"},
	}); err != nil || !ok {
		t.Fatalf("login commit: ok=%v err=%v", ok, err)
	}
	ok, err := svc.Commit(refresh, domain.SessionPatch{User: &domain.User{ID: "user-a"}})
	if err != nil {
		t.Fatalf("refresh commit: %v", err)
	}
	if ok {
		t.Fatal("profile issued before the login was applied")
	}
	data, _ := svc.GetUserData()
	if data.Authorization != "tok-b" || data.User.ID != "user-b" {
		t.Fatalf("session pairs %q with %q", data.Authorization, data.User.ID)
	}
}
