package handlers

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		r.Route("/current-match", func(r chi.Router) {
			r.Get("/", h.FindCurrentMatchByUser)
			r.Post("/", h.AddCurrentMatch)
			r.Delete("/", h.RemoveCurrentMatch)
			r.Get("/intra/{intraId}", h.FindCurrentMatchByIntraID)
			r.Get("/game/{gameId}", h.FindCurrentMatchByGame)
			r.Put("/game", h.SaveGameInCurrentMatch)
			r.Put("/slot/{slotId}", h.ModifyCurrentMatch)
		})

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/current-matches", h.FindCurrentMatchByAdmin)
				r.Post("/current-matches", h.CreateCurrentMatchByAdmin)
				r.Put("/current-matches/{id}", h.UpdateCurrentMatchByAdmin)
				r.Delete("/current-matches/{id}", h.DeleteCurrentMatchByAdmin)
				r.Get("/history/{userId}", h.FindHistoryByAdmin)
			})
		})
	})
}

func (h *Handler) InitAuth(jwtKey string, debug bool) *jwtauth.JWTAuth {
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	if debug {
		expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

		_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
			"role": "admin",
			"exp":  expirationTime,
		})

		// For debugging only
		log.Infof("DEBUG: admin JWT for testing expires soon : %s", tokenString)
	}
	return h.tokenAuth
}
