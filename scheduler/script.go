package scheduler

import "strings"

const defaultShebang = "#!/bin/bash"

// BuildScript assembles the batch script body for inline payloads: shebang
// first, then the preamble lines, then the payload. A payload that brings
// its own shebang keeps it; Command payloads get the default one. The
// result always ends in a newline so it can close a heredoc.
func BuildScript(req *SubmitRequest) string {
	payload := req.Script
	if payload == "" {
		payload = req.Command
	}
	head := defaultShebang
	if strings.HasPrefix(payload, "#!") {
		if i := strings.IndexByte(payload, '\n'); i >= 0 {
			head, payload = payload[:i], payload[i+1:]
		} else {
			head, payload = payload, ""
		}
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteByte('\n')
	for _, line := range req.Preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(payload, "\n"))
	if payload != "" {
		b.WriteByte('\n')
	}
	return b.String()
}
