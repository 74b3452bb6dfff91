package scheduler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validSubmitRequest() *SubmitRequest {
	return &SubmitRequest{
		Name:    "train",
		User:    "alice",
		Command: "hostname",
	}
}

func TestValidateAcceptsTypicalRequest(t *testing.T) {
	req := validSubmitRequest()
	req.Partition = "gpu-a100"
	req.QOS = "normal"
	req.Chdir = "/scratch/alice/run_1"
	req.Output = "logs/out_%j.log"
	req.Env = map[string]string{"OMP_NUM_THREADS": "8", "RUN_ID": "a.b-c"}
	require.NoError(t, req.Validate())
}

func TestValidatePayloadChoice(t *testing.T) {
	req := &SubmitRequest{Name: "train"}
	var verr *ValidationError
	require.ErrorAs(t, req.Validate(), &verr)

	req = validSubmitRequest()
	req.Script = "hostname"
	require.ErrorAs(t, req.Validate(), &verr)
}

func TestValidateScriptPath(t *testing.T) {
	dir := t.TempDir()

	req := validSubmitRequest()
	req.Command = ""
	req.ScriptPath = filepath.Join(dir, "job.sh")

	var verr *ValidationError
	require.ErrorAs(t, req.Validate(), &verr)

	require.NoError(t, os.WriteFile(req.ScriptPath, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, req.Validate())

	req.ScriptPath = dir
	require.ErrorAs(t, req.Validate(), &verr)
}

func TestValidateRejectsMetacharacters(t *testing.T) {
	fields := []func(*SubmitRequest, string){
		func(r *SubmitRequest, v string) { r.Name = v },
		func(r *SubmitRequest, v string) { r.User = v },
		func(r *SubmitRequest, v string) { r.Partition = v },
		func(r *SubmitRequest, v string) { r.QOS = v },
		func(r *SubmitRequest, v string) { r.Chdir = v },
		func(r *SubmitRequest, v string) { r.Output = v },
		func(r *SubmitRequest, v string) { r.Error = v },
	}

	for _, inject := range []string{
		"a;b", "a&&b", "a|b", "$(reboot)", "`reboot`", "a b", "a\nb", "a'b", `a"b`,
	} {
		for i, set := range fields {
			req := validSubmitRequest()
			set(req, inject)
			var verr *ValidationError
			require.ErrorAs(t, req.Validate(), &verr, "field %d value %q", i, inject)
		}
	}
}

func TestValidateEnv(t *testing.T) {
	req := validSubmitRequest()
	req.Env = map[string]string{"1BAD": "x"}
	var verr *ValidationError
	require.ErrorAs(t, req.Validate(), &verr)

	req = validSubmitRequest()
	req.Env = map[string]string{"KEY": "a,b"}
	require.ErrorAs(t, req.Validate(), &verr)

	req = validSubmitRequest()
	req.Env = map[string]string{"KEY": "$(reboot)"}
	require.ErrorAs(t, req.Validate(), &verr)
}

func TestValidateJobID(t *testing.T) {
	require.NoError(t, validateJobID("123"))
	require.NoError(t, validateJobID("123_4"))
	require.NoError(t, validateJobID("123_[0-31]"))
	require.NoError(t, validateJobID("123+0"))
	require.NoError(t, validateJobID("unknown-handle"))

	var verr *ValidationError
	require.ErrorAs(t, validateJobID(""), &verr)
	require.ErrorAs(t, validateJobID("123; reboot"), &verr)
	require.ErrorAs(t, validateJobID("123_[$(reboot)]"), &verr)
}

func TestValidateFilters(t *testing.T) {
	require.NoError(t, validateFilters("", "", ""))
	require.NoError(t, validateFilters("train", "PENDING,RUNNING", "alice"))
	require.NoError(t, validateFilters("", "all", ""))

	var verr *ValidationError
	require.ErrorAs(t, validateFilters("a b", "", ""), &verr)
	require.ErrorAs(t, validateFilters("", "RUNNING; reboot", ""), &verr)
	require.ErrorAs(t, validateFilters("", "", "alice; reboot"), &verr)
}
