package types

const ContextUserKey = "user"

// AllowedOrigins is consulted by CORS and the websocket upgrader. The router
// replaces it with the configured list at startup.
var AllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
