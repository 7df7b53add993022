package proxy

import (
	"encoding/json"
	"net/http"
)

// Respond turns an envelope into the final client response. Errors become
// {"error": message} with their status; successes pass the upstream payload
// through with the handler's success status (default 200). A nil payload
// writes the status alone.
func Respond(w http.ResponseWriter, env Envelope, successStatus int) {
	if env.Err != nil {
		WriteError(w, env.Err)
		return
	}
	if successStatus == 0 {
		successStatus = http.StatusOK
	}
	if env.Payload == nil {
		w.WriteHeader(successStatus)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(successStatus)
	_, _ = w.Write(env.Payload)
}

// WriteError emits the uniform {"error": message} body for any error value.
func WriteError(w http.ResponseWriter, err error) {
	pe := AsError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(pe.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": pe.Message})
}
