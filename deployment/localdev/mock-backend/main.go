// Mock monitoring backend for local development. Serves the three
// status-page endpoints statuspage-web depends on, with two pages: a public
// "acme" page and a private "acme-internal" page that expects a bearer token.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type component struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	Status              string      `json:"status"`
	UptimePercentage90d string      `json:"uptime_percentage_90d"`
	SubComponents       []component `json:"sub_components,omitempty"`
}

type incident struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Status             string           `json:"status"`
	Impact             string           `json:"impact"`
	StartedAt          string           `json:"started_at"`
	ResolvedAt         string           `json:"resolved_at,omitempty"`
	AffectedComponents []string         `json:"affected_components"`
	Updates            []incidentUpdate `json:"updates,omitempty"`
}

type incidentUpdate struct {
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
	Status    string `json:"status,omitempty"`
}

var pages = map[string]struct {
	name         string
	requiresAuth bool
}{
	"acme":          {name: "Acme Status", requiresAuth: false},
	"acme-internal": {name: "Acme Internal Status", requiresAuth: true},
}

var domains = map[string]string{
	"status.acme.com": "acme",
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/status-pages/auth-check/", func(w http.ResponseWriter, r *http.Request) {
		slug := pathSegment(r.URL.Path, "/api/status-pages/auth-check/")
		page, ok := pages[slug]
		if !ok {
			writeJSON(w, map[string]any{"requires_auth": false, "exists": false, "name": nil})
			return
		}
		writeJSON(w, map[string]any{"requires_auth": page.requiresAuth, "exists": true, "name": page.name})
	})

	mux.HandleFunc("/api/status-pages/public/", func(w http.ResponseWriter, r *http.Request) {
		slug := pathSegment(r.URL.Path, "/api/status-pages/public/")
		page, ok := pages[slug]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if page.requiresAuth {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			switch token {
			case "":
				w.WriteHeader(http.StatusUnauthorized)
				return
			case "forbidden-token":
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}
		writeJSON(w, pagePayload(page.name))
	})

	mux.HandleFunc("/api/status-pages/domain-lookup/", func(w http.ResponseWriter, r *http.Request) {
		hostname := r.URL.Query().Get("hostname")
		if slug, ok := domains[hostname]; ok {
			writeJSON(w, map[string]any{"exists": true, "slug": slug})
			return
		}
		writeJSON(w, map[string]any{"exists": false, "slug": ""})
	})

	logger := log.New(log.Writer(), "backend-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":8000",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :8000")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func pagePayload(name string) map[string]any {
	now := time.Now().UTC()
	minus := func(mins int) string {
		return now.Add(-time.Duration(mins) * time.Minute).Format(time.RFC3339)
	}

	return map[string]any{
		"name":           name,
		"overall_status": "degraded_performance",
		"primary_color":  "#0f62fe",
		"support_email":  "support@acme.example",
		"components": []component{
			{ID: "api", Name: "API", Description: "REST + Webhooks", Status: "operational", UptimePercentage90d: "100"},
			{ID: "dashboard", Name: "Dashboard", Description: "Admin web app", Status: "degraded_performance", UptimePercentage90d: "99.98"},
			{
				ID: "oncall", Name: "On-call notifications", Status: "operational", UptimePercentage90d: "99.96",
				SubComponents: []component{
					{ID: "oncall-email", Name: "Email notifications", Status: "operational", UptimePercentage90d: "100"},
					{ID: "oncall-sms", Name: "SMS notifications", Status: "operational", UptimePercentage90d: "99.95"},
				},
			},
		},
		"active_incidents": []incident{
			{
				ID: "inc_123", Title: "Elevated errors on Dashboard", Status: "investigating", Impact: "minor",
				StartedAt: minus(42), AffectedComponents: []string{"dashboard"},
				Updates: []incidentUpdate{
					{CreatedAt: minus(40), Body: "We are investigating reports of increased error rates.", Status: "investigating"},
					{CreatedAt: minus(15), Body: "Narrowed to a dependency rollout; rollback in progress."},
				},
			},
		},
		"recent_incidents": []incident{
			{
				ID: "inc_122", Title: "API latency spikes in us-east-1", Status: "resolved", Impact: "minor",
				StartedAt: minus(60 * 26), ResolvedAt: minus(60 * 20), AffectedComponents: []string{"api"},
				Updates: []incidentUpdate{
					{CreatedAt: minus(60 * 26), Body: "Investigating elevated API latencies.", Status: "investigating"},
					{CreatedAt: minus(60 * 20), Body: "Latency returned to normal; marking resolved.", Status: "resolved"},
				},
			},
		},
		"last_updated": now.Format(time.RFC3339),
	}
}

func pathSegment(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
