package domain

type ScreenName string

const (
	ScreenPing         ScreenName = "ping"
	ScreenIntake       ScreenName = "calculate-intake"
	ScreenAnalyzeImage ScreenName = "analyze-image"
)

type ScreenStateRequest struct {
	Name string `params:"name" validate:"required,oneof=ping calculate-intake analyze-image"`
}
