package model

import "time"

// Remote write outcomes recorded on a batch. The Apps Script endpoint
// never acknowledges acceptance, so "submitted" only means the
// transport succeeded.
const (
	OutcomeSubmittedUnconfirmed = "submitted-unconfirmed"
	OutcomeTransportFailed      = "transport-failed"
)

// DevolucionBatch is the local audit record of one submitted return.
type DevolucionBatch struct {
	ID            string `gorm:"primaryKey;size:36"`
	SocioCodigo   string `gorm:"index;size:32;not null"`
	SocioNombre   string `gorm:"size:256;not null"`
	Transportista string `gorm:"size:256"`
	TotalUnidades int    `gorm:"not null"`
	RemoteOutcome string `gorm:"size:32;not null"`
	CreatedAt     time.Time

	// Associations
	Rows []DevolucionRow `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// DevolucionRow is one audited row, representing a single returned unit.
type DevolucionRow struct {
	ID           int64  `gorm:"primaryKey"`
	BatchID      string `gorm:"index;size:36;not null"`
	EnvaseCodigo string `gorm:"size:64;not null"`
	EnvaseNombre string `gorm:"size:256;not null"`
	Almacen      string `gorm:"size:64"`
}

// Receipt is a generated PDF receipt for a batch, kept for direct
// download when push delivery is unavailable.
type Receipt struct {
	ID        string `gorm:"primaryKey;size:36"`
	BatchID   string `gorm:"uniqueIndex;size:36;not null"`
	FileName  string `gorm:"size:512;not null"`
	PDF       []byte `gorm:"not null"`
	CreatedAt time.Time
}
