// Package observability provides structured logging for the triage service.
//
// Loggers are zap-based and created once at startup; request-scoped fields
// such as the request ID are attached by the HTTP middleware.
package observability
