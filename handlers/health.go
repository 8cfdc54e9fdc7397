package handlers

import (
	"net/http"

	"github.com/upb/ticket-triage/app"
	"github.com/upb/ticket-triage/utils"
)

// Version is reported by the status endpoint
const Version = "0.1.0"

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]string{"status": "ok"})
	}
}

// ReadinessCheck reports ready when at least one provider is configured
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status := "ready"
		httpStatus := http.StatusOK

		if deps.Chain == nil || len(deps.Providers) == 0 {
			checks["providers"] = "none_configured"
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["providers"] = "configured"
		}

		_ = utils.WriteJSON(w, httpStatus, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environment := ""
		if deps.Config != nil {
			environment = deps.Config.Environment
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"version":     Version,
			"environment": environment,
			"providers":   deps.ProviderNames(),
		})
	}
}
