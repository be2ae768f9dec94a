// apps/go-server/consul.go
//
// Optional Consul registration. When CONSUL_HTTP_ADDR is set the server
// registers itself with an HTTP check on /health and deregisters on
// shutdown.

package main

import (
	"fmt"
	"os"
	"strconv"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog/log"
)

type registration struct {
	agent *consul.Agent
	id    string
}

func registerConsul(addr, name, port string) (*registration, error) {
	cfg := consul.DefaultConfig()
	cfg.Address = addr
	client, err := consul.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("consul port %q: %w", port, err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	id := fmt.Sprintf("%s-%s", name, hostname)

	reg := &consul.AgentServiceRegistration{
		ID:   id,
		Name: name,
		Port: p,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, p),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return nil, fmt.Errorf("consul register: %w", err)
	}
	log.Info().Str("service", name).Str("id", id).Msg("registered in consul")
	return &registration{agent: client.Agent(), id: id}, nil
}

func (r *registration) deregister() {
	if err := r.agent.ServiceDeregister(r.id); err != nil {
		log.Warn().Err(err).Str("id", r.id).Msg("consul deregister")
	}
}
