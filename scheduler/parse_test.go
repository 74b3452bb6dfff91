package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseJobID(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    JobID
		wantErr bool
	}{
		{name: "parsable", out: "123\n", want: "123"},
		{name: "parsable with cluster", out: "123;cluster0\n", want: "123"},
		{name: "banner", out: "Submitted batch job 456\n", want: "456"},
		{name: "warning before id", out: "sbatch: Warning: partition is full\n789\n", want: "789"},
		{name: "padded", out: "  321  \n", want: "321"},
		{name: "empty", out: "", wantErr: true},
		{name: "garbage", out: "error: something broke\n", wantErr: true},
		{name: "id inside text", out: "job 123 maybe\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJobID(tt.out)
			if tt.wantErr {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMapState(t *testing.T) {
	tests := []struct {
		raw  string
		want JobState
	}{
		{"PENDING", JobStatePending},
		{"CONFIGURING", JobStatePending},
		{"RUNNING", JobStateRunning},
		{"COMPLETING", JobStateRunning},
		{"SUSPENDED", JobStateRunning},
		{"COMPLETED", JobStateCompleted},
		{"FAILED", JobStateFailed},
		{"NODE_FAIL", JobStateFailed},
		{"OUT_OF_MEMORY", JobStateFailed},
		{"TIMEOUT", JobStateFailed},
		{"CANCELLED", JobStateCancelled},
		{"CANCELLED by 1000", JobStateCancelled},
		{"PREEMPTED", JobStateCancelled},
		{"running", JobStateRunning},
		{" RUNNING ", JobStateRunning},
		{"SPECIAL_EXIT", JobStateUnknown},
		{"", JobStateUnknown},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, mapState(tt.raw), "state %q", tt.raw)
	}
}

func TestParseQueue(t *testing.T) {
	out := "101|train|alice|RUNNING|gpu|1:02:03|node[1-2]\n" +
		"squeue: some warning\n" +
		"102|eval|bob|PENDING|batch|0:00|(Resources)\n" +
		"\n"

	entries := parseQueue(out)
	require.Len(t, entries, 2)

	require.Equal(t, QueueEntry{
		JobID:     "101",
		Name:      "train",
		User:      "alice",
		State:     JobStateRunning,
		RawState:  "RUNNING",
		Partition: "gpu",
		Elapsed:   "1:02:03",
		Reason:    "node[1-2]",
	}, entries[0])
	require.Equal(t, JobStatePending, entries[1].State)
	require.Equal(t, "(Resources)", entries[1].Reason)
}

func TestParseQueueEmpty(t *testing.T) {
	require.Empty(t, parseQueue(""))
	require.Empty(t, parseQueue("\n\n"))
}

func TestCountJobIDs(t *testing.T) {
	require.Equal(t, 0, countJobIDs(""))
	require.Equal(t, 3, countJobIDs("1\n2\n3\n"))
	require.Equal(t, 2, countJobIDs("12\nsqueue: warning\n13_4\n"))
	// Pending array parents and heterogeneous job components count too.
	require.Equal(t, 1, countJobIDs("123_[0-31]\n"))
	require.Equal(t, 3, countJobIDs("123_[1,3,5-7%2]\n456+0\n456+1\n"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "00:00:30"},
		{90 * time.Minute, "01:30:00"},
		{24 * time.Hour, "1-00:00:00"},
		{49*time.Hour + 30*time.Minute + 5*time.Second, "2-01:30:05"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestParseResources(t *testing.T) {
	out := "NodeName=gpu1 Arch=x86_64\n" +
		"   CfgTRES=cpu=128,mem=512000M,billing=128,gres/gpu=8(S:0-1)\n" +
		"NodeName=cpu1 Arch=x86_64\n" +
		"   CfgTRES=cpu=64,mem=256000M,billing=64\n"

	res := parseResources(out)
	require.Equal(t, ClusterResources{Nodes: 2, CPUs: 192, GPUs: 8}, res)
}

func TestParseResourcesEmpty(t *testing.T) {
	require.Equal(t, ClusterResources{}, parseResources(""))
	require.Equal(t, ClusterResources{}, parseResources("No nodes in the system\n"))
}

func TestParseVersion(t *testing.T) {
	got, err := parseVersion("slurm 23.02.1\n")
	require.NoError(t, err)
	require.Equal(t, "23.02.1", got)

	got, err = parseVersion("slurm 22.05\n")
	require.NoError(t, err)
	require.Equal(t, "22.05", got)

	_, err = parseVersion("sh: sbatch: command not found\n")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
