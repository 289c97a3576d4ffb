package network

import (
	"context"
	"fmt"
	"time"

	"phonenet/internal/domain"
)

// Snapshot captures switchboards, trunks and phone numbers. Call state is
// not part of a snapshot.
func (n *Network) Snapshot() *domain.Topology {
	n.mu.RLock()
	defer n.mu.RUnlock()

	topo := domain.NewTopology()
	for code, sb := range n.switchboards {
		topo.AddSwitchboard(code)
		for _, trunk := range sb.Trunks() {
			topo.AddTrunk(code, trunk)
		}
		for _, number := range sb.PhoneNumbers() {
			topo.AddPhone(code, number)
		}
	}
	return topo.Normalize()
}

// Restore merges a snapshot into the network. Existing switchboards, trunks
// and phones are kept; anything missing is added with phones idle. The
// snapshot is validated first so a failed restore changes nothing.
func (n *Network) Restore(topo *domain.Topology) error {
	if topo == nil {
		return fmt.Errorf("%w: empty snapshot", domain.ErrFormat)
	}
	if err := topo.Validate(); err != nil {
		return err
	}
	canon := topo.Normalize()

	n.mu.Lock()
	added := n.mergeLocked(canon)
	n.mu.Unlock()

	n.logger.Info("network restored", "switchboards", len(canon.Switchboards), "new_switchboards", added)
	return nil
}

// mergeLocked applies a normalized snapshot. Caller holds mu exclusively.
func (n *Network) mergeLocked(topo *domain.Topology) int {
	added := 0
	for _, code := range topo.AreaCodes() {
		if _, created := n.addSwitchboardLocked(code); created {
			added++
		}
	}
	for _, code := range topo.AreaCodes() {
		sb := n.switchboards[code]
		rec := topo.Switchboards[code]
		for _, trunk := range rec.Trunks {
			if !sb.HasTrunk(trunk) {
				_ = sb.AddTrunk(trunk)
			}
		}
		for _, number := range rec.Phones {
			if _, ok := sb.Phone(number); !ok {
				_, _ = sb.AddPhone(number)
			}
		}
	}
	return added
}

// Save writes a snapshot to filename using the store its extension selects
func (n *Network) Save(ctx context.Context, filename string) error {
	store, err := n.openStore(filename)
	if err != nil {
		return err
	}
	defer store.Close()

	topo := n.Snapshot()
	if err := store.Save(ctx, topo); err != nil {
		n.logger.Error("network save failed", "file", filename, "error", err)
		return err
	}

	n.logger.Info("network saved", "file", filename, "switchboards", len(topo.Switchboards))
	n.events.Publish(Event{Type: EventNetworkSaved, Payload: map[string]string{"file": filename}})
	return nil
}

// Load reads a snapshot from filename and merges it into the network. On
// any error the network is left unchanged.
func (n *Network) Load(ctx context.Context, filename string) error {
	store, err := n.openStore(filename)
	if err != nil {
		return err
	}
	defer store.Close()

	topo, err := store.Load(ctx)
	if err != nil {
		n.logger.Error("network load failed", "file", filename, "error", err)
		return err
	}
	if err := n.Restore(topo); err != nil {
		n.logger.Error("network load rejected", "file", filename, "error", err)
		return err
	}

	payload := map[string]string{"file": filename}
	attrs := []any{"file", filename, "switchboards", len(topo.Switchboards)}
	if stamped, ok := store.(savedAter); ok {
		if at, ok, err := stamped.SavedAt(ctx); err == nil && ok {
			payload["saved_at"] = at.Format(time.RFC3339)
			attrs = append(attrs, "saved_at", at)
		}
	}

	n.logger.Info("network loaded", attrs...)
	n.events.Publish(Event{Type: EventNetworkLoaded, Payload: payload})
	return nil
}

// savedAter is implemented by stores that record when they were written
type savedAter interface {
	SavedAt(ctx context.Context) (time.Time, bool, error)
}
