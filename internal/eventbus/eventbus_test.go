package eventbus

import (
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/config"
	"github.com/friendsincode/onradio/internal/events"
)

func TestNodeID(t *testing.T) {
	if got := NodeID("web-1"); got != "web-1" {
		t.Fatalf("NodeID(web-1)=%q", got)
	}
	a, b := NodeID(""), NodeID("")
	if a == b || !strings.Contains(a, "-") {
		t.Fatalf("generated ids not unique: %q %q", a, b)
	}
}

func TestSubjectMapping(t *testing.T) {
	s := subject(events.EventConfigSaved)
	if s != "onradio.events.config.saved" {
		t.Fatalf("subject=%q", s)
	}
	if got := eventTypeFromSubject(s); got != events.EventConfigSaved {
		t.Fatalf("event type=%q", got)
	}
}

func TestNewMemoryBus(t *testing.T) {
	bus, err := New(&config.Config{EventBus: config.EventBusMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer bus.Close()

	sub := bus.Subscribe(events.EventTenantCreated)
	bus.Publish(events.EventTenantCreated, events.Payload{events.KeyTenant: "x"})
	select {
	case p := <-sub:
		if p.Tenant() != "x" {
			t.Fatalf("payload=%v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}

	if _, err := New(&config.Config{EventBus: "kafka"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown bus")
	}
}

func TestNATSBusFallsBackToLocal(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = "nats://127.0.0.1:1"
	cfg.Timeout = 200 * time.Millisecond

	nb, err := NewNATSBus(cfg, "node-a", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewNATSBus: %v", err)
	}
	defer nb.Close()

	sub := nb.Subscribe(events.EventConfigSaved)
	nb.Publish(events.EventConfigSaved, events.Payload{events.KeyTenant: "radiouno"})
	select {
	case p := <-sub:
		if p.Tenant() != "radiouno" {
			t.Fatalf("payload=%v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no local delivery")
	}
}

func TestNATSHandleSkipsOwnMessages(t *testing.T) {
	nb := &NATSBus{local: events.NewBus(), nodeID: "node-a", logger: zerolog.Nop()}
	sub := nb.Subscribe(events.EventConfigSaved)

	own, _ := marshalMessage(events.EventConfigSaved, events.Payload{events.KeyTenant: "mine"}, "node-a")
	nb.handle(&nats.Msg{Subject: subject(events.EventConfigSaved), Data: own})
	remote, _ := marshalMessage(events.EventConfigSaved, events.Payload{events.KeyTenant: "theirs"}, "node-b")
	nb.handle(&nats.Msg{Subject: subject(events.EventConfigSaved), Data: remote})
	nb.handle(&nats.Msg{Subject: subject(events.EventConfigSaved), Data: []byte("not json")})

	select {
	case p := <-sub:
		if p.Tenant() != "theirs" {
			t.Fatalf("delivered %v, want remote message", p)
		}
	default:
		t.Fatal("remote message not delivered")
	}
	if len(sub) != 0 {
		t.Fatalf("unexpected extra deliveries: %d", len(sub))
	}
}

func TestRedisBusDeliversLocallyWhenOffline(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Addr = "127.0.0.1:1"

	rb, err := NewRedisBus(cfg, "node-a", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer rb.Close()

	sub := rb.Subscribe(events.EventTenantCreated)
	rb.Publish(events.EventTenantCreated, events.Payload{events.KeyTenant: "radiodos"})
	select {
	case p := <-sub:
		if p.Tenant() != "radiodos" {
			t.Fatalf("payload=%v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no local delivery")
	}
	if rb.ensureOnline() {
		t.Fatal("bus online without redis")
	}
}
