package utils

// Application constants
const (
	// Application name
	AppName = "PayGate"

	// Default port
	DefaultPort = "8080"

	// Default log directory
	DefaultLogDir = "logs"

	// Session cookie name
	SessionName = "paygate_session"

	// Session key holding the authenticated user's id
	SessionUserKey = "user_id"

	// Gin context key holding the resolved models.User
	ContextUserKey = "user"

	// Gin context key holding the request id
	ContextRequestIDKey = "RequestID"

	// Header carrying the provider's webhook signature
	WebhookSignatureHeader = "X-Razorpay-Signature"

	// Minimum password length
	MinPasswordLength = 8

	// Maximum name length
	MaxNameLength = 150

	// Default description for orders created without one
	DefaultPaymentDescription = "Payment"

	// Upper bound on a webhook body we are willing to read
	MaxWebhookBodyBytes = 1 << 20
)

// Error messages
const (
	ErrInvalidCredentials    = "Invalid email or password."
	ErrAllFieldsRequired     = "All fields are required."
	ErrPasswordsDoNotMatch   = "Passwords do not match."
	ErrEmailRegistered       = "Email already registered."
	ErrLoginRequired         = "Authentication credentials were not provided."
	ErrTransactionNotFound   = "Transaction not found."
	ErrTransactionFinalized  = "Transaction already finalized."
	ErrProviderNotConfigured = "Razorpay keys not configured."
	ErrInvalidSignature      = "Invalid webhook signature."
	ErrInternalServer        = "Internal server error"
)

// Success messages
const (
	MsgAccountCreated   = "Account created."
	MsgLoginSuccess     = "Login successful."
	MsgLogoutSuccess    = "Logged out."
	MsgOrderCreated     = "Order created."
	MsgPaymentSuccess   = "Payment successful."
	MsgPaymentFailed    = "Payment marked as failed."
	MsgWebhookProcessed = "Webhook processed."
)
