package constants

// Context keys for validated requests
const (
	// Request context keys
	ContextKeyRequestID = "RequestID"
	ContextKeyRawBody   = "rawBody"

	// Enquiry context keys
	ContextKeyEnquiry = "enquiry"
)
