package extraction

import (
	"github.com/aashari/go-worklist-extractor/internal/gemini"
)

// Record is one worklist entry read from the image
type Record struct {
	PatientName   string `json:"patientName" example:"John Doe"`
	AccessionID   string `json:"accessionID" example:"AB123"`
	ModalityStudy string `json:"modalityStudy" example:"CT Chest"`
}

// Prompt is the instruction sent alongside every image
const Prompt = "Extract the Patient Name, Accession ID, and Modality/Study from the image. If there are multiple records, extract all of them. The Accession ID can be a combination of letters and numbers. Provide the output as a JSON array of objects, where each object has the keys 'patientName', 'accessionID', 'modalityStudy'."

// ImageMimeType is declared for every image regardless of its real encoding
const ImageMimeType = "image/jpeg"

// ResponseMimeType asks the model for raw JSON text
const ResponseMimeType = "application/json"

// Field names in their fixed output order
var recordFields = []string{"patientName", "accessionID", "modalityStudy"}

// ResponseSchema returns the output constraint given to the model
func ResponseSchema() *gemini.Schema {
	properties := make(map[string]*gemini.Schema, len(recordFields))
	for _, field := range recordFields {
		properties[field] = &gemini.Schema{Type: gemini.TypeString}
	}

	return &gemini.Schema{
		Type: gemini.TypeArray,
		Items: &gemini.Schema{
			Type:             gemini.TypeObject,
			Properties:       properties,
			PropertyOrdering: append([]string(nil), recordFields...),
		},
	}
}

// BuildRequest assembles the generateContent payload for one image. The
// image data is forwarded untouched.
func BuildRequest(base64ImageData string) *gemini.GenerateContentRequest {
	return &gemini.GenerateContentRequest{
		Contents: []gemini.Content{{
			Role: "user",
			Parts: []gemini.Part{
				{Text: Prompt},
				{InlineData: &gemini.InlineData{MimeType: ImageMimeType, Data: base64ImageData}},
			},
		}},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseMimeType: ResponseMimeType,
			ResponseSchema:   ResponseSchema(),
		},
	}
}
