// Command healthcheck probes the server's gRPC health service and exits
// non-zero unless it reports SERVING. It is meant for container health
// checks.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gurkanbulca/taskapi/internal/health"
)

func main() {
	var (
		addr    string
		service string
		timeout time.Duration
	)
	flagSet := pflag.NewFlagSet("healthcheck", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "localhost:50051", "gRPC health endpoint")
	flagSet.StringVar(&service, "service", health.ServiceName, "service name to check (empty for overall)")
	flagSet.DurationVar(&timeout, "timeout", 3*time.Second, "probe timeout")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status, err := health.Probe(ctx, addr, service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unhealthy: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(status.String())
	if status != grpc_health_v1.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
