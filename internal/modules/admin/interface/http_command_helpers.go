package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
)

var errInvalidPayload = errors.New("invalid payload")

// registerViewCommands binds the dashboard operations to websocket actions.
// Fetching actions run asynchronously so newer commands can supersede them.
func registerViewCommands(client *infrastructure.Client, dashboard *usecase.Dashboard) {
	commands := client.Commands()
	commands.RegisterAsync("list", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		payload, err := decodeCommand[domain.ListCommand](cmd.Payload)
		if err != nil {
			reportCommandError(client, "list", err)
			return
		}
		collection, ok := domain.ParseCollection(payload.Collection)
		if !ok {
			reportCommandError(client, "list", fmt.Errorf("%w: %q", usecase.ErrUnknownCollection, payload.Collection))
			return
		}
		reportCommandError(client, "list", dashboard.FetchPage(ctx, collection, payload.Page))
	})
	commands.RegisterAsync("next", pageStepHandler("next", dashboard.NextPage))
	commands.RegisterAsync("previous", pageStepHandler("previous", dashboard.PreviousPage))
	commands.RegisterAsync("open", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		payload, err := decodeCommand[domain.OpenDetailCommand](cmd.Payload)
		if err != nil {
			reportCommandError(client, "open", err)
			return
		}
		kind, ok := domain.ParseDetailKind(payload.Kind)
		if !ok {
			reportCommandError(client, "open", fmt.Errorf("%w: %q", usecase.ErrUnknownDetailKind, payload.Kind))
			return
		}
		reportCommandError(client, "open", dashboard.OpenDetail(ctx, kind, payload.ID))
	})
	commands.Register("close", func(_ context.Context, _ *infrastructure.Client, _ infrastructure.Command) {
		dashboard.CloseDetail()
	})
}

func pageStepHandler(action string, step func(context.Context, domain.Collection) error) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		payload, err := decodeCommand[domain.PageStepCommand](cmd.Payload)
		if err != nil {
			reportCommandError(client, action, err)
			return
		}
		collection, ok := domain.ParseCollection(payload.Collection)
		if !ok {
			reportCommandError(client, action, fmt.Errorf("%w: %q", usecase.ErrUnknownCollection, payload.Collection))
			return
		}
		reportCommandError(client, action, step(ctx, collection))
	}
}

// reportCommandError answers rejected commands. Fetch failures, superseded
// responses and redirects already reached the view through its state.
func reportCommandError(client *infrastructure.Client, action string, err error) {
	if err == nil {
		return
	}
	var fetchErr *usecase.FetchError
	switch {
	case errors.As(err, &fetchErr), errors.Is(err, usecase.ErrSuperseded), errors.Is(err, usecase.ErrRedirected):
		slog.Debug("ws command settled", slog.String("viewId", client.ViewID()), slog.String("action", action), slog.Any("error", err))
		return
	}
	slog.Warn("ws command rejected", slog.String("viewId", client.ViewID()), slog.String("action", action), slog.Any("error", err))
	client.SendDomainMessage(domain.BuildErrorMessage(action, err.Error(), time.Now()))
}

func decodeCommand[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return payload, nil
}
