package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"paylink/internal/domain"
	"paylink/internal/protocol/envelope"
)

// Defaults applied to an incomplete SendersQuery.
const (
	DefaultStatus = domain.StatusActive
	DefaultPage   = 1
	DefaultLimit  = 10
)

// Ticket resources. Login and RefreshProfile both write the user slot, so
// they share one resource and the later-issued of the two wins.
const (
	resourceUser    = "user"
	resourceWallets = "wallets"
	resourceSender  = "sender"
)

func sendersResource(status domain.StatusKey) string { return "senders:" + status.String() }

// ErrInvalidDraft is a sender draft that is not a JSON object.
var ErrInvalidDraft = errors.New("sender draft must be a JSON object")

// Service drives the dashboard calls. Each call:
//
//   - reads the device credentials and the bearer token
//   - takes a ticket for the session slot it will write
//   - sends the request and opens the encrypted envelope
//   - commits the result unless a later call for the slot was issued
type Service struct {
	keys    domain.KeyStore
	session domain.SessionService
	api     domain.APIClient
	log     zerolog.Logger
}

// New returns a Service that talks to api on behalf of the device in keys.
func New(
	keys domain.KeyStore,
	session domain.SessionService,
	api domain.APIClient,
	log zerolog.Logger,
) *Service {
	return &Service{
		keys:    keys,
		session: session,
		api:     api,
		log:     log.With().Str("component", "dashboard").Logger(),
	}
}

// Login authenticates and stores the bearer token and user.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	creds, priv, err := s.credentials()
	if err != nil {
		return domain.User{}, err
	}
	ticket := s.session.Begin(resourceUser)
	env, err := s.api.Login(ctx, creds, domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return domain.User{}, err
	}
	res, _, err := envelope.Decode[domain.LoginResult](env, priv)
	if err != nil {
		return domain.User{}, err
	}
	if res.Token == "" {
		return domain.User{}, fmt.Errorf("%w: login result without token", domain.ErrProtocolViolation)
	}
	loggedIn := true
	applied, err := s.session.Commit(ticket, domain.SessionPatch{
		Authorization: &res.Token,
		User:          &res.User,
		IsLoggedIn:    &loggedIn,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logCommit(ticket, applied)
	s.log.Info().Str("device_id", creds.DeviceID.String()).Str("user_id", res.User.ID).Msg("logged in")
	return res.User, nil
}

// Logout ends the server session when there is one, then clears the local
// session. The local logout happens even if the server call fails.
func (s *Service) Logout(ctx context.Context) error {
	creds, priv, err := s.credentials()
	if err != nil {
		return err
	}
	if creds.Authorization != "" {
		env, err := s.api.Logout(ctx, creds)
		if err == nil {
			_, err = envelope.Open(env, priv)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("server logout failed; clearing local session")
		}
	}
	return s.session.Logout()
}

// RefreshProfile fetches the signed-in user.
func (s *Service) RefreshProfile(ctx context.Context) (domain.User, error) {
	creds, priv, err := s.credentials()
	if err != nil {
		return domain.User{}, err
	}
	ticket := s.session.Begin(resourceUser)
	env, err := s.api.Me(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}
	user, _, err := envelope.Decode[domain.User](env, priv)
	if err != nil {
		return domain.User{}, err
	}
	applied, err := s.session.Commit(ticket, domain.SessionPatch{User: &user})
	if err != nil {
		return domain.User{}, err
	}
	s.logCommit(ticket, applied)
	return user, nil
}

// RefreshWallets fetches the wallet balances.
func (s *Service) RefreshWallets(ctx context.Context) ([]domain.Wallet, error) {
	creds, priv, err := s.credentials()
	if err != nil {
		return nil, err
	}
	ticket := s.session.Begin(resourceWallets)
	env, err := s.api.Wallets(ctx, creds)
	if err != nil {
		return nil, err
	}
	wallets, _, err := envelope.Decode[[]domain.Wallet](env, priv)
	if err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	applied, err := s.session.Commit(ticket, domain.SessionPatch{Wallets: &wallets})
	if err != nil {
		return nil, err
	}
	s.logCommit(ticket, applied)
	return wallets, nil
}

// FetchSenders loads one page of a sender list tab and caches it under
// its status key. applied is false when a later-issued fetch of the same
// tab already landed; the page is still returned.
func (s *Service) FetchSenders(
	ctx context.Context,
	q domain.SendersQuery,
) (page domain.SendersPage, applied bool, err error) {
	q = normalizeQuery(q)
	creds, priv, err := s.credentials()
	if err != nil {
		return domain.SendersPage{}, false, err
	}
	ticket := s.session.Begin(sendersResource(q.Status))
	env, err := s.api.Senders(ctx, creds, q)
	if err != nil {
		return domain.SendersPage{}, false, err
	}
	items, pg, err := envelope.Decode[[]domain.Sender](env, priv)
	if err != nil {
		return domain.SendersPage{}, false, err
	}
	page = buildPage(q, items, pg)
	applied, err = s.session.Commit(ticket, domain.SessionPatch{
		SendersTableData: map[domain.StatusKey]domain.SendersPage{q.Status: page},
	})
	if err != nil {
		return domain.SendersPage{}, false, err
	}
	s.logCommit(ticket, applied)
	return page, applied, nil
}

// SelectSender fetches one sender profile and makes it the active one.
func (s *Service) SelectSender(ctx context.Context, id string) (domain.Sender, error) {
	creds, priv, err := s.credentials()
	if err != nil {
		return domain.Sender{}, err
	}
	ticket := s.session.Begin(resourceSender)
	env, err := s.api.Sender(ctx, creds, id)
	if err != nil {
		return domain.Sender{}, err
	}
	sender, _, err := envelope.Decode[domain.Sender](env, priv)
	if err != nil {
		return domain.Sender{}, err
	}
	applied, err := s.session.Commit(ticket, domain.SessionPatch{Sender: &sender})
	if err != nil {
		return domain.Sender{}, err
	}
	s.logCommit(ticket, applied)
	return sender, nil
}

// SaveSenderDraft stores the in-progress add-sender form.
func (s *Service) SaveSenderDraft(draft json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(draft, &obj); err != nil || obj == nil {
		return ErrInvalidDraft
	}
	return s.session.UpdateSession(domain.SessionPatch{AddSender: draft})
}

// DiscardSenderDraft clears the add-sender form.
func (s *Service) DiscardSenderDraft() error {
	return s.session.UpdateSession(domain.SessionPatch{AddSender: json.RawMessage("null")})
}

func (s *Service) credentials() (domain.Credentials, domain.X25519Private, error) {
	id, err := s.keys.Ensure()
	if err != nil {
		return domain.Credentials{}, domain.X25519Private{}, err
	}
	data, err := s.session.GetUserData()
	if err != nil {
		return domain.Credentials{}, domain.X25519Private{}, err
	}
	return domain.Credentials{
		DeviceID:      id.DeviceID,
		PublicKey:     id.PublicKey,
		Authorization: data.Authorization,
	}, id.PrivateKey, nil
}

func (s *Service) logCommit(t domain.Ticket, applied bool) {
	if applied {
		return
	}
	s.log.Debug().Str("resource", t.Resource).Uint64("seq", t.Seq).Msg("result superseded")
}

func normalizeQuery(q domain.SendersQuery) domain.SendersQuery {
	if q.Status == "" {
		q.Status = DefaultStatus
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

func buildPage(q domain.SendersQuery, items []domain.Sender, pg *domain.Pagination) domain.SendersPage {
	if items == nil {
		items = []domain.Sender{}
	}
	page := domain.SendersPage{
		Status:     q.Status,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      len(items),
		TotalPages: 1,
		Items:      items,
	}
	if pg != nil {
		page.Page = pg.Page
		page.Limit = pg.Limit
		page.Total = pg.Total
		page.TotalPages = pg.TotalPages
	}
	return page
}

var _ domain.DashboardService = (*Service)(nil)
