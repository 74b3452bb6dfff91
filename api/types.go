package api

import "github.com/squarefactory/slurm-api/scheduler"

type Error struct {
	Error string `json:"error"`
	Data  string `json:"data,omitempty"`
}

type OK struct {
	Data string `json:"data"`
}

// SubmitJobRequest is the JSON body of POST /jobs. Exactly one of
// scriptPath, script and command must be set.
type SubmitJobRequest struct {
	Name       string            `json:"name,omitempty"`
	User       string            `json:"user,omitempty"`
	ScriptPath string            `json:"scriptPath,omitempty"`
	Script     string            `json:"script,omitempty"`
	Command    string            `json:"command,omitempty"`
	Preamble   []string          `json:"preamble,omitempty"`
	Partition  string            `json:"partition,omitempty"`
	QOS        string            `json:"qos,omitempty"`
	CPUs       int               `json:"cpus,omitempty"`
	GPUs       int               `json:"gpus,omitempty"`
	MemoryMB   int               `json:"memoryMB,omitempty"`
	TimeLimit  string            `json:"timeLimit,omitempty"`
	Chdir      string            `json:"chdir,omitempty"`
	Output     string            `json:"output,omitempty"`
	Error      string            `json:"error,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
}

type JobResponse struct {
	JobID scheduler.JobID `json:"jobId"`
	State string          `json:"state,omitempty"`
}

type QueueResponse struct {
	Jobs []scheduler.QueueEntry `json:"jobs"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
