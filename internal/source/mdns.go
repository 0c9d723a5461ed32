package source

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service advertised by camera servers.
const ServiceType = "_lineprobe._tcp"

// Service is a discovered camera server.
type Service struct {
	Name string
	Host string
	Addr net.IP
	Port int
	Info []string
}

// URL is the websocket address of the service.
func (s Service) URL() string {
	return "ws://" + net.JoinHostPort(s.Addr.String(), strconv.Itoa(s.Port))
}

// Advertise announces a camera server on port. Shut the returned server
// down to withdraw it.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"lineprobe camera"}
	}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	return server, nil
}

// query is swapped in tests.
var query = mdns.Query

// Browse looks for camera servers for up to timeout. Entries without an
// IPv4 address or port are ignored.
func Browse(ctx context.Context, timeout time.Duration) ([]Service, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- query(params)
		close(entries)
	}()

	var found []Service
	seen := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			go func() {
				for range entries {
				}
			}()
			return found, ctx.Err()
		case e, ok := <-entries:
			if !ok {
				if err := <-errc; err != nil {
					return found, fmt.Errorf("mdns query: %w", err)
				}
				return found, nil
			}
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			svc := Service{Name: e.Name, Host: e.Host, Addr: e.AddrV4, Port: e.Port, Info: e.InfoFields}
			if seen[svc.URL()] {
				continue
			}
			seen[svc.URL()] = true
			found = append(found, svc)
		}
	}
}
