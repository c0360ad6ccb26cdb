package data

import (
	"context"
	"log"
	"time"

	"github.com/stake-plus/ideograph/src/api/types"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/store"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// MySQLTokenStore keeps token rows in MySQL, sealing refresh tokens when
// a sealer is configured. Upserts are non-transactional: concurrent
// refreshes race and the later write wins.
type MySQLTokenStore struct {
	db     *gorm.DB
	sealer *store.Sealer
}

func NewMySQLTokenStore(db *gorm.DB, sealer *store.Sealer) *MySQLTokenStore {
	return &MySQLTokenStore{db: db, sealer: sealer}
}

func (s *MySQLTokenStore) SaveToken(ctx context.Context, installationID string, rec store.TokenRecord) error {
	sealed := []byte(rec.RefreshToken)
	if s.sealer != nil {
		var err error
		sealed, err = s.sealer.Seal(rec.RefreshToken)
		if err != nil {
			return err
		}
	}
	row := types.TokenRow{
		InstallationID: installationID,
		AccessToken:    rec.AccessToken,
		SealedRefresh:  sealed,
		ExpiresAt:      rec.ExpiresAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "installation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "sealed_refresh", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *MySQLTokenStore) GetToken(ctx context.Context, installationID string) (store.TokenRecord, error) {
	var row types.TokenRow
	err := s.db.WithContext(ctx).First(&row, "installation_id = ?", installationID).Error
	if err == gorm.ErrRecordNotFound {
		return store.TokenRecord{}, logging.State("no token for installation %q", installationID)
	}
	if err != nil {
		return store.TokenRecord{}, err
	}

	refresh := string(row.SealedRefresh)
	if s.sealer != nil {
		refresh, err = s.sealer.Open(row.SealedRefresh)
		if err != nil {
			return store.TokenRecord{}, err
		}
	}
	return store.TokenRecord{
		AccessToken:  row.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    row.ExpiresAt,
	}, nil
}

// RecordClassification appends one row to the audit trail; failures are
// logged, never surfaced to the request.
func RecordClassification(ctx context.Context, db *gorm.DB, row types.ClassificationRow) {
	if db == nil {
		return
	}
	row.CreatedAt = time.Now()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("mysql: record classification: %v", err)
	}
}
