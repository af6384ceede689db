package models

// ServerStatus reports whether a VPN server accepts connections.
type ServerStatus string

const (
	ServerOnline  ServerStatus = "online"
	ServerOffline ServerStatus = "offline"
)

// Server is a VPN endpoint shown on the stats screen.
type Server struct {
	ID   int
	Name string

	// Load is the current utilisation in percent, 0-100.
	Load int

	// PingMS is the measured round trip; zero while offline.
	PingMS int

	Status ServerStatus
}

// Online reports whether the server accepts connections.
func (s Server) Online() bool {
	return s.Status == ServerOnline
}
