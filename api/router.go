// Package api exposes the scheduler facade over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/squarefactory/slurm-api/scheduler"
)

func Router(slurm *scheduler.Slurm) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Post("/jobs", func(w http.ResponseWriter, r *http.Request) {
		SubmitJob(w, r, slurm)
	})
	r.Get("/jobs/{jobID}", func(w http.ResponseWriter, r *http.Request) {
		JobStatus(w, r, slurm)
	})
	r.Delete("/jobs/{jobID}", func(w http.ResponseWriter, r *http.Request) {
		CancelJob(w, r, slurm)
	})
	r.Get("/queue", func(w http.ResponseWriter, r *http.Request) {
		ListQueue(w, r, slurm)
	})
	r.Get("/queue/count", func(w http.ResponseWriter, r *http.Request) {
		CountJobs(w, r, slurm)
	})
	r.Get("/cluster", func(w http.ResponseWriter, r *http.Request) {
		Cluster(w, r, slurm)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		Health(w, r, slurm)
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		Version(w, r, slurm)
	})

	return r
}
