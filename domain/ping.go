package domain

var (
	MessagePingFailed = "Error"
)

type PingResult struct {
	Message string `json:"message"`
}
