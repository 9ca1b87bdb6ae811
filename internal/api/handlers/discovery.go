package handlers

import (
	"net/http"

	"github.com/agentstationhq/station/internal/buildconfig"
)

type discoveryResponse struct {
	Protocol  string            `json:"protocol"`
	Version   string            `json:"version"`
	Build     string            `json:"build,omitempty"`
	Endpoints map[string]string `json:"endpoints"`
}

// Discovery handles GET / and describes the station's surface so agents
// and clients can find their way without hardcoded paths.
func Discovery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, discoveryResponse{
		Protocol: "A2A",
		Version:  "1.0",
		Build:    buildconfig.Version(),
		Endpoints: map[string]string{
			"list_agents":    "/agents",
			"register_agent": "/agent",
			"ws":             "/ws",
			"chat_messages":  "/chat/messages",
		},
	})
}
