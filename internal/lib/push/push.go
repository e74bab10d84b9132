// Package push отправляет push-события во внешний шлюз доставки по HTTP.
package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/campusboard/campus-news/internal/config"
	"github.com/campusboard/campus-news/internal/models"
)

// Gateway шлюз push-уведомлений. При пустом URL события только журналируются,
// это режим локальной разработки.
type Gateway struct {
	url       string
	accessKey string
	client    *http.Client
	log       *slog.Logger
}

// NewGateway создает новый экземпляр Gateway.
func NewGateway(cfg config.Push, log *slog.Logger) *Gateway {
	return &Gateway{
		url:       cfg.PushGatewayURL,
		accessKey: cfg.PushAccessKey,
		client:    &http.Client{Timeout: cfg.PushTimeout},
		log:       log,
	}
}

// Notify доставляет событие шлюзу.
func (g *Gateway) Notify(event models.PushEvent) error {
	const op = "push.Notify"

	if g.url == "" {
		g.log.Info("push gateway not configured, event logged only",
			slog.String("type", event.Type), slog.Int("recipients", len(event.Recipients)))
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequest(http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.accessKey != "" {
		req.Header.Set("Authorization", "key="+g.accessKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: gateway returned status %d", op, resp.StatusCode)
	}
	return nil
}
