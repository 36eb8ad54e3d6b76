package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/questx-lab/dashboard/config"
)

// Store keeps the dashboard session in an authenticated and, when an encryption key is configured,
// encrypted cookie. The Discord access token lives here and is never sent to the browser in clear.
type Store struct {
	name  string
	store sessions.Store
}

func NewCookieStore(cfg config.SessionConfigs) *Store {
	keyPairs := [][]byte{[]byte(cfg.Secret)}
	if cfg.EncryptionKey != "" {
		keyPairs = append(keyPairs, []byte(cfg.EncryptionKey))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{name: cfg.Name, store: store}
}

func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return s.store.Save(r, w, session)
}

// Clear expires the session cookie.
func (s *Store) Clear(r *http.Request, w http.ResponseWriter) error {
	session, err := s.store.Get(r, s.name)
	if err != nil && session == nil {
		return err
	}

	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return s.store.Save(r, w, session)
}

// GetString returns a string value of the session, an undecodable cookie behaves like an empty
// session.
func (s *Store) GetString(r *http.Request, key string) string {
	session, err := s.store.Get(r, s.name)
	if err != nil || session == nil {
		return ""
	}

	value, _ := session.Values[key].(string)
	return value
}
