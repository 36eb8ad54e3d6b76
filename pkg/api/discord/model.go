package discord

// UserGuild is an element of GET /users/@me/guilds.
type UserGuild struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        *string  `json:"icon"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features"`
}

type Guild struct {
	ID      string
	Name    string
	OwnerID string
}

type Role struct {
	ID          string
	Name        string
	Position    int
	Permissions string
}

type User struct {
	ID       string
	Username string
	Avatar   string
}

type Member struct {
	User  User
	Roles []string

	// Permissions is only returned by Discord in interaction payloads, it is usually empty and
	// has to be computed from Roles.
	Permissions string
}
