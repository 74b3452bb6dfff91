package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/squarefactory/slurm-api/scheduler"
)

func Health(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := slurm.HealthCheck(ctx); err != nil {
		renderError(w, r, err)
		log.Printf("health failed: %s", err)
		return
	}
	render.JSON(w, r, OK{"ok"})
}

func Version(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	version, err := slurm.Version(r.Context())
	if err != nil {
		renderError(w, r, err)
		log.Printf("version failed: %s", err)
		return
	}
	render.JSON(w, r, VersionResponse{Version: version})
}
