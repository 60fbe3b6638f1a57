package registry

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registrar holds a Consul service registration so the service can be
// deregistered on shutdown.
type Registrar struct {
	logger    *zerolog.Logger
	client    *api.Client
	serviceID string
}

// Register announces the service to the local Consul agent with a gRPC
// health check pointed at healthAddr.
func Register(logger *zerolog.Logger, consulAddr, serviceName, httpAddr, healthAddr string) (*Registrar, error) {
	client, err := api.NewClient(&api.Config{Address: consulAddr})
	if err != nil {
		return nil, err
	}

	_, portStr, err := net.SplitHostPort(httpAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid http address %q: %w", httpAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid http port %q: %w", portStr, err)
	}

	serviceID := fmt.Sprintf("%s-%s", serviceName, uuid.NewString())

	registration := &api.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: port,
		Check: &api.AgentServiceCheck{
			GRPC:                           healthAddr,
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, err
	}

	logger.Info().Str("service_id", serviceID).Msg("registered with consul")

	return &Registrar{
		logger:    logger,
		client:    client,
		serviceID: serviceID,
	}, nil
}

// Deregister removes the service from Consul.
func (r *Registrar) Deregister() {
	if err := r.client.Agent().ServiceDeregister(r.serviceID); err != nil {
		r.logger.Error().Err(err).Msg("failed to deregister from consul")
	}
}
