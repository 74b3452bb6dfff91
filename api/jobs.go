package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/squarefactory/slurm-api/scheduler"
)

func SubmitJob(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	var req SubmitJobRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error{Error: err.Error()})
		return
	}

	var timeLimit time.Duration
	if req.TimeLimit != "" {
		var err error
		timeLimit, err = time.ParseDuration(req.TimeLimit)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Error{Error: fmt.Sprintf("invalid timeLimit: %s", err)})
			return
		}
	}

	jobID, err := slurm.Submit(r.Context(), &scheduler.SubmitRequest{
		Name:       req.Name,
		User:       req.User,
		ScriptPath: req.ScriptPath,
		Script:     req.Script,
		Command:    req.Command,
		Preamble:   req.Preamble,
		Partition:  req.Partition,
		QOS:        req.QOS,
		CPUs:       req.CPUs,
		GPUs:       req.GPUs,
		MemoryMB:   req.MemoryMB,
		TimeLimit:  timeLimit,
		Chdir:      req.Chdir,
		Output:     req.Output,
		Error:      req.Error,
		Env:        req.Env,
	})
	if err != nil {
		renderError(w, r, err)
		log.Printf("submit failed: %s", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, JobResponse{JobID: jobID})
}

func JobStatus(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	jobID := scheduler.JobID(chi.URLParam(r, "jobID"))

	state, err := slurm.Status(r.Context(), jobID)
	if err != nil {
		renderError(w, r, err)
		log.Printf("status failed: %s", err)
		return
	}
	render.JSON(w, r, JobResponse{JobID: jobID, State: string(state)})
}

func CancelJob(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	jobID := scheduler.JobID(chi.URLParam(r, "jobID"))

	if err := slurm.Cancel(r.Context(), jobID); err != nil {
		renderError(w, r, err)
		log.Printf("cancel failed: %s", err)
		return
	}

	// The scheduler terminates the job asynchronously.
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, OK{"cancellation requested"})
}

func ListQueue(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	jobs, err := slurm.Queue(r.Context(), &scheduler.QueueRequest{
		Name:   r.URL.Query().Get("name"),
		States: r.URL.Query().Get("states"),
		User:   r.URL.Query().Get("user"),
	})
	if err != nil {
		renderError(w, r, err)
		log.Printf("queue failed: %s", err)
		return
	}
	if jobs == nil {
		jobs = []scheduler.QueueEntry{}
	}
	render.JSON(w, r, QueueResponse{Jobs: jobs})
}

func CountJobs(w http.ResponseWriter, r *http.Request, slurm *scheduler.Slurm) {
	count, err := slurm.CountJobs(r.Context(), &scheduler.CountRequest{
		Name:   r.URL.Query().Get("name"),
		States: r.URL.Query().Get("states"),
		User:   r.URL.Query().Get("user"),
	})
	if err != nil {
		renderError(w, r, err)
		log.Printf("count failed: %s", err)
		return
	}
	render.JSON(w, r, CountResponse{Count: count})
}

// renderError maps scheduler errors to HTTP statuses. Raw scheduler output
// travels in the data field when there is any.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   *scheduler.ValidationError
		notFound     *scheduler.NotFoundError
		cancellation *scheduler.CancellationError
		timeout      *scheduler.TimeoutError
		submission   *scheduler.SubmissionError
		parse        *scheduler.ParseError
	)

	switch {
	case errors.As(err, &validation):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error{Error: err.Error()})
	case errors.As(err, &notFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error{Error: err.Error()})
	case errors.As(err, &cancellation):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, Error{Error: err.Error(), Data: cancellation.Output})
	case errors.As(err, &timeout):
		render.Status(r, http.StatusGatewayTimeout)
		render.JSON(w, r, Error{Error: err.Error()})
	case errors.As(err, &submission):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, Error{Error: err.Error(), Data: submission.Output})
	case errors.As(err, &parse):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, Error{Error: err.Error(), Data: parse.Output})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error{Error: err.Error()})
	}
}
