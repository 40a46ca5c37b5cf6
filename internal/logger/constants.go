package logger

// LogStages defines standardized stage names for consistent logging
var LogStages = struct {
	// Request lifecycle
	RequestReceived  string
	RequestValidated string
	RequestCompleted string
	RequestFailed    string

	// Vendor operations
	VendorRequest  string
	VendorResponse string
	VendorError    string

	// Extraction
	Preparation  string
	OutputParsed string

	// System operations
	Initialization string
	TrackingSetup  string
	HealthCheck    string
	Shutdown       string
}{
	RequestReceived:  "RequestReceived",
	RequestValidated: "RequestValidated",
	RequestCompleted: "RequestCompleted",
	RequestFailed:    "RequestFailed",

	VendorRequest:  "VendorRequest",
	VendorResponse: "VendorResponse",
	VendorError:    "VendorError",

	Preparation:  "Preparation",
	OutputParsed: "OutputParsed",

	Initialization: "Initialization",
	TrackingSetup:  "TrackingSetup",
	HealthCheck:    "HealthCheck",
	Shutdown:       "Shutdown",
}

// ComponentNames defines standardized component names
var ComponentNames = struct {
	Server           string
	Lambda           string
	Middleware       string
	ExtractHandler   string
	HealthHandler    string
	ExtractorService string
	GeminiClient     string
	ErrorHandler     string
}{
	Server:           "Server",
	Lambda:           "Lambda",
	Middleware:       "Middleware",
	ExtractHandler:   "ExtractHandler",
	HealthHandler:    "HealthHandler",
	ExtractorService: "ExtractorService",
	GeminiClient:     "GeminiClient",
	ErrorHandler:     "ErrorHandler",
}
