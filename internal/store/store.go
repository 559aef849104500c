// Package store is the local audit layer. The remote registration
// endpoint never acknowledges writes, so every submitted batch, its
// per-unit rows and the generated receipt are kept here.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"envase-return-backend/internal/model"
)

// Store defines the persistence operations the service needs.
type Store interface {
	DB() *gorm.DB

	SaveBatch(ctx context.Context, batch *model.DevolucionBatch) error
	GetBatch(ctx context.Context, id string) (*model.DevolucionBatch, error)

	SaveReceipt(ctx context.Context, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	GetReceiptByBatch(ctx context.Context, batchID string) (*model.Receipt, error)

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForSocio(ctx context.Context, socioCodigo string) ([]model.PushSubscription, error)
}

// gormStore implements Store using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SaveBatch persists a batch together with its rows in one
// transaction.
func (s *gormStore) SaveBatch(ctx context.Context, batch *model.DevolucionBatch) error {
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to save devolucion batch %s: %w", batch.ID, err)
	}
	return nil
}

func (s *gormStore) GetBatch(ctx context.Context, id string) (*model.DevolucionBatch, error) {
	var batch model.DevolucionBatch
	if err := s.db.WithContext(ctx).Preload("Rows").First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (s *gormStore) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := s.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", receipt.ID, err)
	}
	return nil
}

func (s *gormStore) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := s.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (s *gormStore) GetReceiptByBatch(ctx context.Context, batchID string) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := s.db.WithContext(ctx).First(&receipt, "batch_id = ?", batchID).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpsertSubscription creates or refreshes a push subscription keyed by
// its endpoint.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "socio_codigo"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) SubscriptionsForSocio(ctx context.Context, socioCodigo string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).Where("socio_codigo = ?", socioCodigo).Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for socio %s: %w", socioCodigo, err)
	}
	return subs, nil
}
