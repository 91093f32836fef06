package handlers

import (
	"net/http"

	"propcare/internal/utils"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
