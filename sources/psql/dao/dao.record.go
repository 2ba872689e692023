package dao

import (
	"context"

	"scout/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordDAO struct {
	DB *gorm.DB
}

func NewRecordDAO(db *gorm.DB) *RecordDAO {
	return &RecordDAO{DB: db}
}

// UpsertRecord creates or refreshes the record for (source, external_id).
func (dao *RecordDAO) UpsertRecord(ctx context.Context, record *models.Record) (*models.Record, error) {
	var existing models.Record
	err := dao.DB.WithContext(ctx).
		Where("source = ? AND external_id = ?", record.Source, record.ExternalID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := dao.DB.WithContext(ctx).Create(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       record.Title,
		"summary":     record.Summary,
		"pages":       record.Pages,
		"archive_key": record.ArchiveKey,
	}
	if err := dao.DB.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (dao *RecordDAO) GetRecordByID(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	var record models.Record
	err := dao.DB.WithContext(ctx).First(&record, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (dao *RecordDAO) GetRecordsByUser(ctx context.Context, userID int) ([]models.Record, error) {
	var records []models.Record
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
