package usecase

import domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"

// Session is a snapshot of the auth state a request runs under. Guests carry
// only a GuestID; authenticated sessions also carry the backend bearer token
// and the resolved user.
type Session struct {
	GuestID string
	Token   string
	User    *domain.User
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Key identifies the server-side session state. Authenticated sessions are
// keyed by user so concurrent devices share one cart view; guests by their
// issued guest ID.
func (s Session) Key() string {
	if s.Authenticated() {
		return "u:" + s.User.ID
	}
	return "g:" + s.GuestID
}
