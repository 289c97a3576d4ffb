package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"phonenet/internal/domain"
	"phonenet/internal/logger"
	"phonenet/internal/repository"
	"phonenet/internal/routing"

	"github.com/google/uuid"
)

// StoreOpener resolves the snapshot store for a file name
type StoreOpener func(path string) (repository.TopologyStore, error)

// Option configures a Network
type Option func(*Network)

// WithLogger sets the logger used for topology and call logging
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithEventBus publishes network changes to bus
func WithEventBus(bus *EventBus) Option {
	return func(n *Network) {
		if bus != nil {
			n.events = bus
		}
	}
}

// WithRouting sets the options passed to every route search
func WithRouting(opts ...routing.Option) Option {
	return func(n *Network) {
		n.routeOpts = append(n.routeOpts, opts...)
	}
}

// WithStoreOpener overrides how Save and Load resolve file names
func WithStoreOpener(open StoreOpener) Option {
	return func(n *Network) {
		if open != nil {
			n.openStore = open
		}
	}
}

// WithClock overrides the time source for call records
func WithClock(now func() time.Time) Option {
	return func(n *Network) {
		if now != nil {
			n.now = now
		}
	}
}

// Network owns every switchboard and routes calls over the trunk graph.
//
// mu is held exclusively for structural change (switchboards and trunks) and
// shared for lookups, searches and call-state change. callsMu guards the call
// ledger and serialises call-state change; it is always taken after mu and
// before any switchboard lock.
type Network struct {
	mu           sync.RWMutex
	switchboards map[int]*domain.Switchboard

	callsMu sync.Mutex
	active  map[uuid.UUID]*domain.Call
	byPhone map[domain.PhoneID]uuid.UUID
	history []*domain.Call

	logger    *slog.Logger
	events    *EventBus
	routeOpts []routing.Option
	openStore StoreOpener
	now       func() time.Time
}

// New creates an empty network
func New(opts ...Option) *Network {
	n := &Network{
		switchboards: make(map[int]*domain.Switchboard),
		active:       make(map[uuid.UUID]*domain.Call),
		byPhone:      make(map[domain.PhoneID]uuid.UUID),
		logger:       logger.Discard(),
		events:       NewEventBus(),
		openStore:    repository.Open,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Events returns the bus network changes are published on
func (n *Network) Events() *EventBus {
	return n.events
}

// AddSwitchboard returns the switchboard for areaCode, creating it if needed.
// created reports whether a new switchboard was added.
func (n *Network) AddSwitchboard(areaCode int) (sb *domain.Switchboard, created bool) {
	n.mu.Lock()
	sb, created = n.addSwitchboardLocked(areaCode)
	n.mu.Unlock()

	if created {
		n.logger.Debug("switchboard added", "area_code", areaCode)
		n.events.Publish(Event{Type: EventSwitchboardAdded, Payload: map[string]int{"area_code": areaCode}})
	}
	return sb, created
}

func (n *Network) addSwitchboardLocked(areaCode int) (*domain.Switchboard, bool) {
	if sb, ok := n.switchboards[areaCode]; ok {
		return sb, false
	}
	sb := domain.NewSwitchboard(areaCode)
	n.switchboards[areaCode] = sb
	return sb, true
}

// FindSwitchboard looks up a switchboard by area code
func (n *Network) FindSwitchboard(areaCode int) (*domain.Switchboard, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	sb, ok := n.switchboards[areaCode]
	return sb, ok
}

// Switchboards returns all switchboards ordered by area code
func (n *Network) Switchboards() []*domain.Switchboard {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sortedLocked()
}

func (n *Network) sortedLocked() []*domain.Switchboard {
	boards := make([]*domain.Switchboard, 0, len(n.switchboards))
	for _, sb := range n.switchboards {
		boards = append(boards, sb)
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].AreaCode() < boards[j].AreaCode() })
	return boards
}

// AddPhone adds a local phone to the switchboard with areaCode
func (n *Network) AddPhone(areaCode, number int) (*domain.Phone, error) {
	sb, ok := n.FindSwitchboard(areaCode)
	if !ok {
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, areaCode)
	}

	phone, err := sb.AddPhone(number)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("phone added", "phone", phone.ID().String())
	n.events.Publish(Event{Type: EventPhoneAdded, Payload: phone.ID()})
	return phone, nil
}

// ConnectSwitchboards adds a trunk between two switchboards. Both directions
// are added or neither is.
func (n *Network) ConnectSwitchboards(area1, area2 int) error {
	if area1 == area2 {
		return fmt.Errorf("%w: switchboard %d cannot trunk to itself", domain.ErrInvalidOperation, area1)
	}

	n.mu.Lock()
	err := n.connectLocked(area1, area2)
	n.mu.Unlock()
	if err != nil {
		return err
	}

	n.logger.Debug("trunk added", "area_1", area1, "area_2", area2)
	n.events.Publish(Event{Type: EventTrunkAdded, Payload: map[string]int{"area_1": area1, "area_2": area2}})
	return nil
}

func (n *Network) connectLocked(area1, area2 int) error {
	a, ok := n.switchboards[area1]
	if !ok {
		return fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area1)
	}
	b, ok := n.switchboards[area2]
	if !ok {
		return fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area2)
	}
	if a.HasTrunk(area2) || b.HasTrunk(area1) {
		return fmt.Errorf("%w: trunk %d-%d", domain.ErrDuplicate, area1, area2)
	}

	// Both checks passed under the structural lock, so neither add can fail.
	if err := a.AddTrunk(area2); err != nil {
		return err
	}
	return b.AddTrunk(area1)
}

// graphView adapts the switchboard map to routing.Graph. The caller must
// hold mu for the lifetime of the view.
type graphView struct {
	boards map[int]*domain.Switchboard
}

func (g graphView) Trunks(areaCode int) ([]int, bool) {
	sb, ok := g.boards[areaCode]
	if !ok {
		return nil, false
	}
	return sb.Trunks(), true
}

// FindConnection searches for a trunk route between two switchboards and
// returns the area codes along it.
func (n *Network) FindConnection(ctx context.Context, area1, area2 int) ([]int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.findLocked(ctx, area1, area2)
}

func (n *Network) findLocked(ctx context.Context, area1, area2 int) ([]int, error) {
	res, err := routing.Find(ctx, graphView{boards: n.switchboards}, area1, area2, n.routeOpts...)
	switch {
	case err == nil:
		n.logger.Debug("route found", "from", area1, "to", area2, "hops", res.Hops(), "visited", len(res.Visited))
		return res.Path, nil
	case errors.Is(err, routing.ErrUnreachable):
		return nil, fmt.Errorf("%w: %d to %d", domain.ErrUnreachable, area1, area2)
	case errors.Is(err, routing.ErrStartNotFound):
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area1)
	case errors.Is(err, routing.ErrTargetNotFound):
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area2)
	default:
		return nil, err
	}
}

// ConnectCall routes a call between two phones. Both phones are marked as
// connected only once a trunk route has been found; on any error neither
// phone changes.
func (n *Network) ConnectCall(ctx context.Context, area1, number1, area2, number2 int) (*domain.Call, error) {
	caller := domain.PhoneID{AreaCode: area1, Number: number1}
	callee := domain.PhoneID{AreaCode: area2, Number: number2}

	n.mu.RLock()
	defer n.mu.RUnlock()

	a, ok := n.switchboards[area1]
	if !ok {
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area1)
	}
	b, ok := n.switchboards[area2]
	if !ok {
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, area2)
	}
	if _, ok := a.Phone(number1); !ok {
		return nil, fmt.Errorf("%w: phone %s on switchboard %d", domain.ErrNotFound, caller, area1)
	}
	if _, ok := b.Phone(number2); !ok {
		return nil, fmt.Errorf("%w: phone %s on switchboard %d", domain.ErrNotFound, callee, area2)
	}
	if caller == callee {
		return nil, fmt.Errorf("%w: phone %s cannot call itself", domain.ErrInvalidOperation, caller)
	}

	route, err := n.findLocked(ctx, area1, area2)
	if err != nil {
		n.logger.Info("call not routed", "caller", caller.String(), "callee", callee.String(), "error", err)
		return nil, err
	}

	n.callsMu.Lock()
	if err := domain.Connect(a, number1, b, number2); err != nil {
		n.callsMu.Unlock()
		return nil, err
	}
	call := domain.NewCall(caller, callee, route, n.now())
	n.active[call.ID] = call
	n.byPhone[caller] = call.ID
	n.byPhone[callee] = call.ID
	started := call.Clone()
	n.callsMu.Unlock()

	n.logger.Info("call started", "call_id", started.ID, "caller", caller.String(), "callee", callee.String(), "route", route)
	n.events.Publish(Event{Type: EventCallStarted, Payload: started.Clone()})
	return started, nil
}

// EndCall hangs up the call the phone is in, returning both phones to idle
func (n *Network) EndCall(areaCode, number int) (*domain.Call, error) {
	id := domain.PhoneID{AreaCode: areaCode, Number: number}

	n.mu.RLock()
	defer n.mu.RUnlock()

	sb, ok := n.switchboards[areaCode]
	if !ok {
		return nil, fmt.Errorf("%w: switchboard %d", domain.ErrNotFound, areaCode)
	}

	n.callsMu.Lock()
	peer, err := domain.Hangup(sb, number, func(code int) (*domain.Switchboard, bool) {
		b, ok := n.switchboards[code]
		return b, ok
	})
	if err != nil {
		n.callsMu.Unlock()
		return nil, err
	}

	call := n.closeCallLocked(id, peer)
	n.callsMu.Unlock()

	n.logger.Info("call ended", "call_id", call.ID, "phone", id.String(), "peer", peer.String())
	n.events.Publish(Event{Type: EventCallEnded, Payload: call.Clone()})
	return call, nil
}

// closeCallLocked moves the call between id and peer to history and returns
// a copy of the ended record. Caller holds callsMu.
func (n *Network) closeCallLocked(id, peer domain.PhoneID) *domain.Call {
	now := n.now()
	call := n.active[n.byPhone[id]]
	if call == nil || !call.Involves(peer) {
		// Phones connected without a ledger entry; record what is known.
		call = domain.NewCall(id, peer, nil, now)
	}

	call.End(now)
	delete(n.active, call.ID)
	delete(n.byPhone, call.Caller)
	delete(n.byPhone, call.Callee)
	n.history = append(n.history, call)
	return call.Clone()
}

// Calls returns the active calls ordered by start time
func (n *Network) Calls() []domain.Call {
	n.callsMu.Lock()
	defer n.callsMu.Unlock()

	calls := make([]domain.Call, 0, len(n.active))
	for _, c := range n.active {
		calls = append(calls, *c.Clone())
	}
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].StartedAt.Equal(calls[j].StartedAt) {
			return calls[i].Caller.Less(calls[j].Caller)
		}
		return calls[i].StartedAt.Before(calls[j].StartedAt)
	})
	return calls
}

// History returns ended calls in the order they ended
func (n *Network) History() []domain.Call {
	n.callsMu.Lock()
	defer n.callsMu.Unlock()

	calls := make([]domain.Call, 0, len(n.history))
	for _, c := range n.history {
		calls = append(calls, *c.Clone())
	}
	return calls
}

// Status returns the display view of every switchboard ordered by area code
func (n *Network) Status() []domain.SwitchboardStatus {
	n.mu.RLock()
	defer n.mu.RUnlock()

	boards := n.sortedLocked()
	status := make([]domain.SwitchboardStatus, 0, len(boards))
	for _, sb := range boards {
		status = append(status, sb.Status())
	}
	return status
}
