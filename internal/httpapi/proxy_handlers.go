package httpapi

import (
	"net/http"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/audit"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/stream"
)

// forward runs the proxied call and writes the envelope. The caller's query
// string travels upstream on every method; the client strips the reserved
// organization_id parameter. Successful writes additionally emit an audit
// entry and an activity event.
func (a *API) forward(w http.ResponseWriter, r *http.Request, domain auth.Domain, preq proxy.Request, successStatus int) {
	if preq.Query == nil {
		preq.Query = r.URL.Query()
	}
	env := a.client.Do(r.Context(), preq)
	if env.OK() && auth.OperationForMethod(r.Method) == auth.OperationManage {
		a.recordWrite(r, domain, preq)
	}
	proxy.Respond(w, env, successStatus)
}

func (a *API) recordWrite(r *http.Request, domain auth.Domain, preq proxy.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	action := actionForMethod(r.Method)

	_ = audit.LogEvent(r.Context(), "proxy."+string(domain)+"."+action, map[string]any{
		"method": preq.Method,
		"path":   preq.Path,
	})
	if a.activity != nil {
		a.activity.Publish(stream.ActivityEvent{
			Actor:          principal.UserID,
			Domain:         string(domain),
			Action:         action,
			Resource:       preq.Path,
			OrganizationID: principal.OrganizationID,
			Timestamp:      time.Now().UTC(),
		})
	}
}

func actionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodDelete:
		return "delete"
	default:
		return "update"
	}
}
