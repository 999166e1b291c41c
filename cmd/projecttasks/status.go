// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/projecttasks/projecttasks/internal/config"
)

const statusTimeout = 5 * time.Second

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the health of a running server",
		Long:  `Query the readiness probe of a running server over its metrics address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address of the running server")

	return cmd
}

func runStatus(cmd *cobra.Command, metricsAddr string) error {
	url := fmt.Sprintf("http://%s/healthz/readiness", metricsAddr)

	client := &http.Client{Timeout: statusTimeout}
	resp, err := client.Get(url) //nolint:noctx // one-shot CLI request with client timeout
	if err != nil {
		return oops.Code("STATUS_UNREACHABLE").With("url", url).Wrap(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return oops.Code("STATUS_READ_FAILED").Wrap(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		cmd.Println("ready:", strings.TrimSpace(string(body)))
		return nil
	case http.StatusServiceUnavailable:
		cmd.Println("not ready:", strings.TrimSpace(string(body)))
		return oops.Code("STATUS_NOT_READY").Errorf("server reports not ready")
	default:
		return oops.Code("STATUS_UNEXPECTED").
			With("status", resp.StatusCode).
			Errorf("unexpected status %d", resp.StatusCode)
	}
}
