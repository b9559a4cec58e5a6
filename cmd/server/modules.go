package main

import (
	"encoding/json"
	"net/http"

	"github.com/tuya-yu/HeartDrawing/internal/api"
	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/pkg/module"
)

func mountAPI(router *module.Router, infra *infrastructure.Infrastructure, cfg *config.Config) error {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return err
	}
	router.Mount(apiModule)
	return nil
}

func buildRouter(infra *infrastructure.Infrastructure, version string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		if err := infra.Database.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
