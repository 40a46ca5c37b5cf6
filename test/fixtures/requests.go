package fixtures

import (
	"encoding/base64"

	"github.com/aashari/go-worklist-extractor/test/helpers"
)

// SampleJPEG is a minimal JPEG header; the service forwards bytes without decoding them
var SampleJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

// SampleImageBase64 is SampleJPEG encoded the way clients send it
func SampleImageBase64() string {
	return base64.StdEncoding.EncodeToString(SampleJPEG)
}

// ExtractRequest returns a well-formed extract request
func ExtractRequest() helpers.ExtractRequest {
	return helpers.ExtractRequest{Base64ImageData: SampleImageBase64()}
}

// SingleRecord is the model text for one worklist row
const SingleRecord = `[{"patientName":"John Doe","accessionID":"AB123","modalityStudy":"CT Chest"}]`

// WorklistRecords is the model text for a multi-row worklist
const WorklistRecords = `[
  {"patientName":"John Doe","accessionID":"AB123","modalityStudy":"CT Chest"},
  {"patientName":"Jane Roe","accessionID":"CD456","modalityStudy":"MR Brain"},
  {"patientName":"Ahmad Yusuf","accessionID":"EF789","modalityStudy":"XR Knee"}
]`

// ExpectedWorklist mirrors WorklistRecords in order
func ExpectedWorklist() []helpers.Record {
	return []helpers.Record{
		{PatientName: "John Doe", AccessionID: "AB123", ModalityStudy: "CT Chest"},
		{PatientName: "Jane Roe", AccessionID: "CD456", ModalityStudy: "MR Brain"},
		{PatientName: "Ahmad Yusuf", AccessionID: "EF789", ModalityStudy: "XR Knee"},
	}
}

// UpstreamQuotaError is a typical rate-limit body from the model service
const UpstreamQuotaError = `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`

// UpstreamBadKey is the body returned for a rejected key
const UpstreamBadKey = `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`
