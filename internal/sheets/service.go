package sheets

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"envase-return-backend/config"
	"envase-return-backend/internal/model"
)

// ErrNotLoaded is reported while no catalog snapshot has been loaded
// yet, either because the initial fetch is still running or because it
// yielded nothing.
var ErrNotLoaded = errors.New("catalog not loaded")

// Service holds the latest catalog snapshot and refreshes it in the
// background. A failed refresh keeps the previous snapshot; readers
// never observe a partially updated one.
type Service struct {
	cfg    *config.Config
	client *Client

	mu         sync.RWMutex
	socios     []model.Socio
	inventario []model.Envase
	estado     model.AppStatus
	loadedAt   time.Time
}

// NewService creates a catalog service around a gviz client.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:    cfg,
		client: NewClient(&cfg.Sheets),
		estado: model.StatusOpen,
	}
}

// NewServiceWithClient is used by tests to point the service at a
// stub endpoint.
func NewServiceWithClient(cfg *config.Config, client *Client) *Service {
	return &Service{cfg: cfg, client: client, estado: model.StatusOpen}
}

// Run refreshes the snapshot once immediately and then on the
// configured interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting catalog refresh service...")

	if err := s.RefreshOnce(ctx); err != nil {
		log.Printf("Initial catalog load failed: %v", err)
	}

	timer := time.NewTimer(s.cfg.Sheets.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Catalog refresh service shutting down.")
			return
		case <-timer.C:
			if err := s.RefreshOnce(ctx); err != nil {
				log.Printf("Catalog refresh failed: %v", err)
			}
			timer.Reset(s.cfg.Sheets.Interval)
		}
	}
}

// RefreshOnce fetches status, socios and inventory. The socio and
// inventory reads run concurrently; both must finish before the
// snapshot is swapped. A refresh that yields neither socios nor
// inventory is treated as a connectivity failure and leaves any
// previous snapshot in place.
func (s *Service) RefreshOnce(ctx context.Context) error {
	estado := s.client.Estado(ctx, &s.cfg.Sheets)

	var (
		wg         sync.WaitGroup
		socios     []model.Socio
		inventario []model.Envase
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		socios = s.client.Socios(ctx, &s.cfg.Sheets)
	}()
	go func() {
		defer wg.Done()
		inventario = s.client.Inventario(ctx, &s.cfg.Sheets)
	}()
	wg.Wait()

	if len(socios) == 0 && len(inventario) == 0 {
		return ErrNotLoaded
	}

	s.mu.Lock()
	s.socios = socios
	s.inventario = inventario
	s.estado = estado
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	log.Printf("Catalog snapshot refreshed: %d socios, %d envases, estado %s",
		len(socios), len(inventario), estado)
	return nil
}

// Ready reports whether a snapshot has been loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// Estado returns the last observed service availability flag.
func (s *Service) Estado() model.AppStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estado
}

// Socios returns the current socio list.
func (s *Service) Socios() []model.Socio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.socios
}

// Inventario returns the current envase catalog.
func (s *Service) Inventario() []model.Envase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventario
}

// FindSocio looks a socio up by code, case-insensitively.
func (s *Service) FindSocio(code string) (model.Socio, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, socio := range s.socios {
		if strings.ToUpper(socio.Codigo) == code {
			return socio, true
		}
	}
	return model.Socio{}, false
}
