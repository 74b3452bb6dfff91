package api

import (
	"log"
	"net/http"

	"github.com/go-chi/render"
	"github.com/squarefactory/slurm-api/scheduler"
)

func Cluster(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	res, err := slurm.Resources(r.Context())
	if err != nil {
		renderError(w, r, err)
		log.Printf("resources failed: %s", err)
		return
	}
	render.JSON(w, r, res)
}
