// Package announce advertises a running receiver over DNS-SD/mDNS so a
// bench laptop on the same network segment can find it without a
// configured address.
package announce

import (
	"context"
	"fmt"
	"os"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

const serviceType = "_ook315rx._tcp"

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// Announcer holds the responder and the single service instance it
// advertises for the lifetime of the process.
type Announcer struct {
	responder dnssd.Responder
	handle    dnssd.ServiceHandle
}

// Start registers instance (typically the hostname or site name) on
// port, and begins responding to mDNS queries in the background until
// ctx is cancelled. Call Stop on the returned Announcer to withdraw the
// service record.
func Start(ctx context.Context, instance string, port int, txt map[string]string) (*Announcer, error) {
	cfg := dnssd.Config{
		Name: instance,
		Type: serviceType,
		Port: port,
		Text: txt,
	}
	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("announce: building service record: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("announce: creating responder: %w", err)
	}
	handle, err := responder.Add(svc)
	if err != nil {
		return nil, fmt.Errorf("announce: registering %s: %w", instance, err)
	}

	a := &Announcer{responder: responder, handle: handle}
	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			// Respond only returns early on a real transport failure;
			// a cancelled ctx is the expected shutdown path.
			logger.Error("mDNS responder stopped", "instance", instance, "err", err)
		}
	}()
	return a, nil
}

// Stop withdraws the service record. Safe to call once; the responder
// itself is torn down by cancelling the context passed to Start.
func (a *Announcer) Stop() {
	if a == nil {
		return
	}
	a.responder.Remove(a.handle)
}
