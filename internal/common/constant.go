package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// TapeColors is the palette a new note's tape color is picked from.
var TapeColors = []string{
	"#60a5fa", // blue
	"#f472b6", // pink
	"#fbbf24", // yellow
	"#4ade80", // green
	"#a78bfa", // purple
	"#fb923c", // orange
	"#f87171", // red
	"#2dd4bf", // teal
}
