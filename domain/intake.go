package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

var (
	MessageFailedCalculateIntake  = "Error"
	MessageFailedGetIntakeHistory = "failed to load intake history"
)

type (
	Gender        string
	ActivityLevel string
)

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"

	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// FormNumber is a numeric form field exactly as the user typed it. It is sent
// as a JSON number when it parses as one and as a JSON string otherwise, so
// range and required checks stay with the backend.
type FormNumber string

func (n FormNumber) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s != "" && json.Valid([]byte(s)) {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return []byte(s), nil
		}
	}
	return json.Marshal(string(n))
}

func (n *FormNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = FormNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = FormNumber(num.String())
	return nil
}

type (
	IntakeRequest struct {
		UserID        FormNumber    `json:"user_id" form:"user_id"`
		HeightCm      FormNumber    `json:"height_cm" form:"height_cm"`
		WeightKg      FormNumber    `json:"weight_kg" form:"weight_kg"`
		Age           FormNumber    `json:"age" form:"age"`
		Gender        Gender        `json:"gender" form:"gender"`
		ActivityLevel ActivityLevel `json:"activity_level" form:"activity_level"`
	}

	IntakeResult struct {
		Calories json.Number `json:"calories"`
		ProteinG json.Number `json:"protein_g"`
		FatG     json.Number `json:"fat_g"`
		SugarG   json.Number `json:"sugar_g"`
	}

	// IntakeRecord is one opaque entry of the backend's intake history.
	IntakeRecord json.RawMessage
)

func (r IntakeRecord) String() string {
	return string(r)
}
