// Package webhook entrega los avisos de stock bajo a un endpoint HTTP externo.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockflow-api/internal/application/inventory"
)

// AlertName valor del campo "alert" del payload.
const AlertName = "Estoque Baixo"

var _ inventory.LowStockNotifier = (*Notifier)(nil)

// Payload cuerpo JSON enviado al endpoint.
type Payload struct {
	Alert           string `json:"alert"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductSKU      string `json:"product_sku"`
	CurrentQuantity int64  `json:"current_quantity"`
	MinStock        int64  `json:"min_stock"`
	WarehouseID     string `json:"warehouse_id"`
	WarehouseName   string `json:"warehouse_name"`
}

// Notifier hace POST del aviso en una goroutine propia: la petición que movió el stock no espera.
// Sin reintentos; los fallos sólo se registran.
type Notifier struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
	wg         sync.WaitGroup
}

// New crea el notificador. url vacía = avisos descartados (se advierte una vez al arrancar).
func New(url string, timeout time.Duration) *Notifier {
	l := log.With().Str("component", "low_stock_webhook").Logger()
	if url == "" {
		l.Warn().Msg("LOW_STOCK_WEBHOOK_URL no configurada: los avisos de stock bajo no se enviarán")
	}
	return &Notifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        l,
	}
}

// NotifyLowStock encola el envío y retorna de inmediato.
func (n *Notifier) NotifyLowStock(ctx context.Context, ev inventory.LowStockEvent) {
	if n.url == "" {
		n.log.Warn().Str("product_id", ev.ProductID).Int64("quantity", ev.Quantity).
			Msg("aviso de stock bajo descartado: webhook sin configurar")
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(context.WithoutCancel(ctx), ev); err != nil {
			n.log.Error().Err(err).
				Str("product_id", ev.ProductID).
				Str("warehouse_id", ev.WarehouseID).
				Int64("quantity", ev.Quantity).
				Msg("no se pudo entregar el aviso de stock bajo")
			return
		}
		n.log.Info().Str("product_id", ev.ProductID).Str("warehouse_id", ev.WarehouseID).
			Int64("quantity", ev.Quantity).Int64("min_stock", ev.MinStock).Msg("aviso de stock bajo enviado")
	}()
}

func (n *Notifier) send(ctx context.Context, ev inventory.LowStockEvent) error {
	body, err := json.Marshal(Payload{
		Alert:           AlertName,
		ProductID:       ev.ProductID,
		ProductName:     ev.ProductName,
		ProductSKU:      ev.ProductSKU,
		CurrentQuantity: ev.Quantity,
		MinStock:        ev.MinStock,
		WarehouseID:     ev.WarehouseID,
		WarehouseName:   ev.WarehouseName,
	})
	if err != nil {
		return fmt.Errorf("webhook: serializar payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: respuesta %d", resp.StatusCode)
	}
	return nil
}

// Close espera los envíos en curso o hasta que ctx venza.
func (n *Notifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("webhook: envíos pendientes al cerrar: %w", ctx.Err())
	}
}
