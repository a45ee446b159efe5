package devserver

import (
	"fmt"
	"sort"
	"time"

	"paylink/internal/domain"
)

type account struct {
	password string
	user     domain.User
	wallets  []domain.Wallet
	senders  []domain.Sender
}

// Seeded credentials.
const (
	DemoEmail    = "demo@paylink.dev"
	DemoPassword = "correct horse battery staple"
)

func seedAccounts() map[string]*account {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	var senders []domain.Sender
	add := func(status domain.StatusKey, n int, country string) {
		for i := 1; i <= n; i++ {
			idx := len(senders) + 1
			senders = append(senders, domain.Sender{
				ID:           fmt.Sprintf("snd_%03d", idx),
				BusinessName: fmt.Sprintf("%s Trading %d", country, i),
				Country:      country,
				Status:       status,
				RegNumber:    fmt.Sprintf("RC%06d", 100000+idx),
				CreatedAt:    base.Add(time.Duration(idx) * 24 * time.Hour).Format(time.RFC3339),
			})
		}
	}
	add(domain.StatusActive, 23, "NG")
	add(domain.StatusDraft, 4, "GH")
	add(domain.StatusPending, 6, "KE")
	add(domain.StatusRejected, 2, "ZA")

	return map[string]*account{
		DemoEmail: {
			password: DemoPassword,
			user: domain.User{
				ID:        "usr_demo",
				Email:     DemoEmail,
				FirstName: "Ada",
				LastName:  "Obi",
				Phone:     "+2348000000000",
				Verified:  true,
			},
			wallets: []domain.Wallet{
				{ID: "wal_usd", Currency: "USD", Balance: "12500.00", Ledger: "12750.00"},
				{ID: "wal_ngn", Currency: "NGN", Balance: "8400000.00", Ledger: "8400000.00"},
				{ID: "wal_gbp", Currency: "GBP", Balance: "310.55", Ledger: "310.55"},
			},
			senders: senders,
		},
	}
}

// pageOf returns the items of one page of status-filtered senders.
func pageOf(all []domain.Sender, status domain.StatusKey, page, limit int) ([]domain.Sender, domain.Pagination) {
	var match []domain.Sender
	for _, s := range all {
		if status == "" || s.Status == status {
			match = append(match, s)
		}
	}
	sort.SliceStable(match, func(i, j int) bool { return match[i].CreatedAt > match[j].CreatedAt })

	total := len(match)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	pg := domain.Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}

	start := (page - 1) * limit
	if start >= total {
		return []domain.Sender{}, pg
	}
	end := start + limit
	if end > total {
		end = total
	}
	return append([]domain.Sender{}, match[start:end]...), pg
}
