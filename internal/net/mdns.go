package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"

	"LocalSketch/internal/errors"
)

// ServiceType is the mDNS service LocalSketch servers advertise.
const ServiceType = "_localsketch._tcp"

// Peer is a LocalSketch server found on the local network.
type Peer struct {
	Instance string
	Host     string
	Addr     string // ip:port
	Info     []string
}

// URL is the address of the peer's browser client.
func (p Peer) URL() string { return "http://" + p.Addr + "/" }

// Advertise announces a server on port until the returned server is shut
// down. The outgoing IPv4 address is published so clients do not depend on
// hostname resolution.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get hostname")
	}
	var ips []net.IP
	if ip, err := GetOutgoingIP(); err == nil {
		ips = []net.IP{net.ParseIP(ip)}
	}
	if len(info) == 0 {
		info = []string{"LocalSketch"}
	}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, ips, info)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "create mDNS service")
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "start mDNS server")
	}
	return server, nil
}

// Browse queries the local network for LocalSketch servers for up to
// timeout and calls found for each IPv4 answer.
func Browse(ctx context.Context, timeout time.Duration, found func(Peer)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Peer{
				Instance: e.Name,
				Host:     e.Host,
				Addr:     fmt.Sprintf("%s:%d", e.AddrV4, e.Port),
				Info:     e.InfoFields,
			})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "mDNS query")
	}
	return nil
}
