// Package health publishes store reachability through the gRPC health
// protocol.
package health

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name of the REST API.
const ServiceName = "taskapi.v1.TaskAPI"

const pingTimeout = 3 * time.Second

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checker drives the serving status of the overall server and ServiceName
// from periodic store pings.
type Checker struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
}

func NewChecker(db Pinger, interval time.Duration) *Checker {
	return &Checker{
		server:   health.NewServer(),
		db:       db,
		interval: interval,
	}
}

// Register adds the health service to a gRPC server.
func (c *Checker) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, c.server)
}

// Server exposes the underlying health server.
func (c *Checker) Server() *health.Server {
	return c.server
}

// Check pings the store once and publishes the result.
func (c *Checker) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := c.db.PingContext(ctx); err != nil {
		log.Printf("[WARN] health: database ping failed: %v", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks immediately and then on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING so probes fail during drain.
func (c *Checker) Shutdown() {
	c.server.Shutdown()
}

// Probe asks the health service at addr for the status of service.
func Probe(ctx context.Context, addr, service string, opts ...grpc.DialOption) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, fmt.Errorf("connect %s: %w", addr, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus(), nil
}
