package utils

// HTTP Header Constants
const (
	// Standard HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
	HeaderCacheControl  = "Cache-Control"

	// Request/Response Tracking Headers
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderResponseTime  = "X-Response-Time"
	HeaderErrorType     = "X-Error-Type"

	// Client IP Headers (priority order)
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderCloudFlareRay  = "cf-ray"

	// Security Headers
	HeaderXContentTypeOptions = "X-Content-Type-Options"

	// CORS Headers
	HeaderAccessControlAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods  = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders  = "Access-Control-Allow-Headers"
	HeaderAccessControlExposeHeaders = "Access-Control-Expose-Headers"
)

// Content Type Constants
const (
	ContentTypeJSON = "application/json"
	ContentTypeJPEG = "image/jpeg"
)

// Cache Control Values
const (
	CacheControlNoStore = "no-cache, no-store, must-revalidate"
)

// Security Header Values
const (
	XContentTypeOptionsNoSniff = "nosniff"
)

// Service Values
const (
	ServiceName      = "Worklist-Extractor/1.0"
	DefaultUserAgent = "WorklistExtractor/1.0"
)

// CORS Values
const (
	CORSAllowOriginAll   = "*"
	CORSAllowMethods     = "POST, GET, OPTIONS"
	CORSAllowHeadersStd  = "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-ID, X-Correlation-ID"
	CORSExposeHeadersStd = "X-Request-ID, X-Correlation-ID, X-Response-Time, X-Error-Type"
)
