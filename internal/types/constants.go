package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Connection status labels as shown on the connections page.
const (
	StatusRequestSent     = "Request Sent"
	StatusRequestReceived = "Request Received"
	StatusNoRequestSent   = "No Request Sent"
)

// MaxMeetingsPerUser caps how many meetings a user may have scheduled at
// once, counted across all of their connections.
const MaxMeetingsPerUser = 2

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
