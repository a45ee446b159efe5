package types

import "encoding/json"

// ClientKeys mirrors the device keypair inside the session record.
type ClientKeys struct {
	PublicKey  X25519Public  `json:"publicKey"`
	PrivateKey X25519Private `json:"privateKey"`
}

// SessionData is the single cached record of the signed-in user's state.
type SessionData struct {
	Authorization    string                    `json:"authorization"`
	Client           ClientKeys                `json:"client"`
	DeviceID         DeviceID                  `json:"deviceid"`
	User             *User                     `json:"user"`
	Sender           *Sender                   `json:"sender"`
	Wallets          []Wallet                  `json:"wallets"`
	SendersTableData map[StatusKey]SendersPage `json:"sendersTableData"`
	AddSender        json.RawMessage           `json:"addSender,omitempty"`
	IsLoggedIn       bool                      `json:"isLoggedIn"`
}

// Clone returns a deep copy so callers cannot mutate the live record.
func (s SessionData) Clone() SessionData {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Sender != nil {
		snd := *s.Sender
		out.Sender = &snd
	}
	if s.Wallets != nil {
		out.Wallets = append([]Wallet(nil), s.Wallets...)
	}
	out.SendersTableData = make(map[StatusKey]SendersPage, len(s.SendersTableData))
	for k, page := range s.SendersTableData {
		page.Items = append([]Sender(nil), page.Items...)
		out.SendersTableData[k] = page
	}
	if s.AddSender != nil {
		out.AddSender = append(json.RawMessage(nil), s.AddSender...)
	}
	return out
}

// SessionPatch is a partial SessionData. Nil fields are left unchanged.
// Device fields are not patchable.
type SessionPatch struct {
	Authorization    *string
	User             *User
	Sender           *Sender
	Wallets          *[]Wallet
	SendersTableData map[StatusKey]SendersPage
	AddSender        json.RawMessage
	IsLoggedIn       *bool
}

// Empty reports whether applying the patch would change nothing.
func (p SessionPatch) Empty() bool {
	return p.Authorization == nil && p.User == nil && p.Sender == nil &&
		p.Wallets == nil && len(p.SendersTableData) == 0 && p.AddSender == nil &&
		p.IsLoggedIn == nil
}

// Ticket tags an in-flight request for a logical resource so a stale
// resolution can be told apart from the most recently issued one.
type Ticket struct {
	Resource string
	Seq      uint64
	Epoch    uint64 // bumped on logout; older tickets never commit
}
