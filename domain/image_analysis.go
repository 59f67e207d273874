package domain

import (
	"encoding/json"
)

var (
	MessageFailedAnalyzeImage = "Error analyzing image. Catch error: "

	// FieldImageFile is the multipart field the backend reads the upload from.
	FieldImageFile = "file"
)

type (
	AnalyzeImageRequest struct {
		Filename string
		Content  []byte
	}

	ImageAnalysisResult struct {
		Certainty    json.Number `json:"certainty"`
		FoodName     string      `json:"food_name"`
		CaloriesKcal json.Number `json:"calories_Kcal"`
		FatInG       json.Number `json:"fat_in_g"`
		ProteinInG   json.Number `json:"protein_in_g"`
		SugarInG     json.Number `json:"sugar_in_g"`
	}
)
