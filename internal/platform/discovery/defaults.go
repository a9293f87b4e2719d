// Package discovery centralizes the address conventions PopCity binaries use
// to find each other.
package discovery

import (
	"net"
	"strconv"
	"strings"
)

const (
	// ServiceGateway is the gamify gateway gRPC service identity.
	ServiceGateway = "gateway"

	localHost = "localhost"
)

var grpcPorts = map[string]int{
	ServiceGateway: 8090,
}

// GRPCPort returns the conventional gRPC port for a service, or 0.
func GRPCPort(service string) int {
	return grpcPorts[strings.TrimSpace(service)]
}

// DefaultGRPCAddr returns the canonical in-network gRPC address for a
// service, where the service name doubles as its host.
func DefaultGRPCAddr(service string) string {
	service = strings.TrimSpace(service)
	return addr(service, GRPCPort(service))
}

// LocalGRPCAddr returns the gRPC address of a service running on this host.
func LocalGRPCAddr(service string) string {
	return addr(localHost, GRPCPort(service))
}

// OrLocalGRPCAddr returns value when set, otherwise the local address of
// service.
func OrLocalGRPCAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return LocalGRPCAddr(service)
}

func addr(host string, port int) string {
	if host == "" || port <= 0 {
		return ""
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
