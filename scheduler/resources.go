package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ClusterResources are the configured totals across all nodes, summed from
// what scontrol reports. Allocation state is not tracked here.
type ClusterResources struct {
	Nodes int `json:"nodes"`
	CPUs  int `json:"cpus"`
	GPUs  int `json:"gpus"`
}

// Resources sums the node resources reported by scontrol show nodes.
func (s *Slurm) Resources(ctx context.Context) (ClusterResources, error) {
	cmd := fmt.Sprintf("%s show nodes", s.bin("scontrol"))
	out, err := s.exec(ctx, "resources", "", cmd)
	if err != nil {
		log.Printf("resources failed: %s", err)
		return ClusterResources{}, commandError(out, err)
	}
	return parseResources(out), nil
}

// parseResources walks the per-node blocks of scontrol show nodes: one
// NodeName= line per node, and a CfgTRES= line carrying cpu=N and gres/gpu=N
// pairs. GPU counts may carry a socket suffix ("4(S:0-1)").
func parseResources(out string) ClusterResources {
	var res ClusterResources
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "NodeName="):
			res.Nodes++
		case strings.HasPrefix(line, "CfgTRES="):
			for _, kv := range strings.Split(strings.TrimPrefix(line, "CfgTRES="), ",") {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					continue
				}
				v, _, _ = strings.Cut(v, "(")
				n, err := strconv.Atoi(v)
				if err != nil {
					continue
				}
				switch k {
				case "cpu":
					res.CPUs += n
				case "gres/gpu":
					res.GPUs += n
				}
			}
		}
	}
	return res
}
