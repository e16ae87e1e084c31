package handler

import "net/http"

// Routes registers every spectator endpoint on mux.
func Routes(mux *http.ServeMux, campaigns *CampaignHandler, ws *WSHandler) {
	mux.HandleFunc("GET /healthz", campaigns.Health)
	mux.HandleFunc("GET /leaderboard", campaigns.Leaderboard)
	mux.HandleFunc("GET /campaigns", campaigns.ListArchived)
	mux.HandleFunc("GET /campaigns/{id}", campaigns.GetArchived)
	mux.HandleFunc("GET /campaigns/{id}/state", campaigns.State)
	mux.HandleFunc("GET /campaigns/{id}/map", campaigns.Map)
	mux.HandleFunc("GET /ws", ws.ServeWS)
}
