package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"resortAdmin/internal/modules/admin/domain"
)

// ViewRegistry tracks the dashboards of live websocket views so upstream
// changes can reach them.
type ViewRegistry struct {
	mu    sync.RWMutex
	views map[string]*Dashboard
}

func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{views: make(map[string]*Dashboard)}
}

func (r *ViewRegistry) Attach(id string, dashboard *Dashboard) {
	id = strings.TrimSpace(id)
	if id == "" || dashboard == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id] = dashboard
	slog.Debug("view registry attach", slog.String("viewId", id), slog.Int("views", len(r.views)))
}

func (r *ViewRegistry) Detach(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, strings.TrimSpace(id))
}

func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Refresh applies the change event to every attached view. Views in the
// redirect phase are detached.
func (r *ViewRegistry) Refresh(ctx context.Context, event domain.ChangeEvent) {
	for _, entry := range r.snapshot() {
		if entry.dashboard.Phase() == domain.PhaseRedirecting {
			r.Detach(entry.id)
			continue
		}
		if err := entry.dashboard.Refresh(ctx, event); err != nil {
			slog.Warn("view refresh failed", slog.String("viewId", entry.id), slog.String("collection", string(event.Collection)), slog.Any("error", err))
			continue
		}
		slog.Debug("view refreshed", slog.String("viewId", entry.id), slog.String("collection", string(event.Collection)), slog.Int64("resourceId", event.ResourceID))
	}
}

type registeredView struct {
	id        string
	dashboard *Dashboard
}

func (r *ViewRegistry) snapshot() []registeredView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]registeredView, 0, len(r.views))
	for id, dashboard := range r.views {
		entries = append(entries, registeredView{id: id, dashboard: dashboard})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}
