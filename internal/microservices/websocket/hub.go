package websocket

import (
	"context"
	"log/slog"

	"albumrank/internal/microservices/http-api/service"
	"albumrank/internal/notify"
	"albumrank/internal/ranking"
)

// Hub is the central registry of live ranking subscribers. It listens for
// album change notifications, recomputes the ranking snapshot and fans it
// out to every connected client.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	clients map[string]*Client // map[clientID] -> *Client

	rankingService service.RankingService
	notifier       notify.RankingNotifier
	opts           ranking.Options
	logger         *slog.Logger
}

func NewHub(rankingService service.RankingService, notifier notify.RankingNotifier, opts ranking.Options, logger *slog.Logger) *Hub {
	return &Hub{
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		clients:        make(map[string]*Client),
		rankingService: rankingService,
		notifier:       notifier,
		opts:           opts,
		logger:         logger,
	}
}

// Run drives the hub until ctx is cancelled. Client registration and change
// notifications are serialized through a single loop, so the clients map
// needs no lock.
func (h *Hub) Run(ctx context.Context) error {
	changes, cancel, err := h.notifier.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case client := <-h.Register:
			h.addClient(ctx, client)

		case client := <-h.Unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.Close()
				h.logger.Info("ranking feed client disconnected", "client_id", client.ID, "clients", len(h.clients))
			}

		case albumID, ok := <-changes:
			if !ok {
				return nil
			}
			h.broadcastSnapshot(ctx, albumID)

		case <-ctx.Done():
			// tell clients the feed is going away before cutting them off
			notice, _ := NewSystemMessage("rankings feed shutting down").ToJSON()
			for _, client := range h.clients {
				if notice != nil {
					client.SendMessage(notice)
				}
				client.Close()
			}
			return ctx.Err()
		}
	}
}

// addClient registers the client and sends it the current snapshot so it
// does not have to wait for the next rating change.
func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.clients[client.ID] = client
	h.logger.Info("ranking feed client connected", "client_id", client.ID, "user_id", client.UserID, "clients", len(h.clients))

	rankings, err := h.rankingService.GetRankings(ctx, h.opts, "")
	if err != nil {
		h.logger.Error("initial ranking snapshot failed", "error", err)
		return
	}
	data, err := NewSnapshotMessage("", rankings).ToJSON()
	if err != nil {
		return
	}
	client.SendMessage(data)
}

func (h *Hub) broadcastSnapshot(ctx context.Context, albumID string) {
	if len(h.clients) == 0 {
		return
	}

	rankings, err := h.rankingService.GetRankings(ctx, h.opts, "")
	if err != nil {
		h.logger.Error("ranking snapshot failed", "album_id", albumID, "error", err)
		return
	}

	data, err := NewSnapshotMessage(albumID, rankings).ToJSON()
	if err != nil {
		return
	}

	for _, client := range h.clients {
		if err := client.SendMessage(data); err != nil {
			// slow consumer, drop it
			delete(h.clients, client.ID)
			client.Close()
			h.logger.Warn("dropping slow ranking feed client", "client_id", client.ID)
		}
	}
}
