package app

import (
	"io"

	"paylink/internal/domain"
)

// App is what commands see: the services and the resources to release.
type App struct {
	Keys      domain.KeyStore
	Session   domain.SessionService
	Dashboard domain.DashboardService

	closer io.Closer
}

func New(
	keys domain.KeyStore,
	session domain.SessionService,
	dashboard domain.DashboardService,
	closer io.Closer,
) *App {
	return &App{
		Keys:      keys,
		Session:   session,
		Dashboard: dashboard,
		closer:    closer,
	}
}

// Close releases the persistence backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
