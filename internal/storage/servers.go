package storage

import "github.com/mmynk/skydragon/internal/models"

// DefaultServers returns the built-in server list.
func DefaultServers() []models.Server {
	return []models.Server{
		{ID: 1, Name: "Northern Temple", Load: 65, PingMS: 12, Status: models.ServerOnline},
		{ID: 2, Name: "Dragon Valley", Load: 38, PingMS: 24, Status: models.ServerOnline},
		{ID: 3, Name: "Shadow Desert", Load: 91, PingMS: 45, Status: models.ServerOnline},
		{ID: 4, Name: "Mountain Peak", Load: 27, PingMS: 18, Status: models.ServerOnline},
		{ID: 5, Name: "Forgotten Ruins", Status: models.ServerOffline},
	}
}
