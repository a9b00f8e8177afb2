package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// RecordService provides CRUD over a table's data records with field-level
// validation against the table schema.
type RecordService interface {
	// ListRecords returns all records of a table.
	ListRecords(ctx context.Context, tableID string) ([]models.DataRecord, error)

	// SaveRecord upserts a record after validating its values against the
	// table's field definitions. Values for unknown fields are dropped.
	SaveRecord(ctx context.Context, tableID string, record *models.DataRecord) (*models.DataRecord, error)

	// DeleteRecord removes a record by ID. The record must belong to the
	// given table.
	DeleteRecord(ctx context.Context, tableID, id string) error
}

type recordService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(st *store.Store, logger *zap.Logger) RecordService {
	return &recordService{
		store:  st,
		logger: logger.Named("record-service"),
	}
}

var _ RecordService = (*recordService)(nil)

func (s *recordService) ListRecords(ctx context.Context, tableID string) ([]models.DataRecord, error) {
	if _, err := s.store.TableSchema(tableID); err != nil {
		return nil, err
	}
	return s.store.DataRecords(tableID), nil
}

func (s *recordService) SaveRecord(ctx context.Context, tableID string, record *models.DataRecord) (*models.DataRecord, error) {
	schema, err := s.store.TableSchema(tableID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		raw, present := record.Values[field.Name]
		if !present || raw == nil || raw == "" {
			if field.Required {
				return nil, fmt.Errorf("%w: field %q is required", apperrors.ErrValidation, field.Name)
			}
			continue
		}
		coerced, err := coerceValue(raw, &field)
		if err != nil {
			return nil, err
		}
		values[field.Name] = coerced
	}
	record.Values = values
	record.TableID = tableID

	if record.ID == "" {
		record.ID = uuid.NewString()
		record.CreatedAt = now()
		s.store.InsertDataRecord(record)
		s.logger.Info("record created",
			zap.String("record_id", record.ID),
			zap.String("table_id", tableID))
		return record.Clone(), nil
	}

	prior, err := s.findRecord(tableID, record.ID)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = prior.CreatedAt
	if err := s.store.UpdateDataRecord(record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

func (s *recordService) findRecord(tableID, id string) (*models.DataRecord, error) {
	for _, r := range s.store.DataRecords(tableID) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *recordService) DeleteRecord(ctx context.Context, tableID, id string) error {
	if _, err := s.store.TableSchema(tableID); err != nil {
		return err
	}
	if _, err := s.findRecord(tableID, id); err != nil {
		return err
	}
	return s.store.DeleteDataRecord(id)
}

// coerceValue checks a raw value against the field type and normalizes it to
// the stored representation.
func coerceValue(raw any, field *models.FieldDefinition) (any, error) {
	switch field.Type {
	case models.FieldTypeNumber:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: field %q expects a number", apperrors.ErrValidation, field.Name)
		}
		return n, nil
	case models.FieldTypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if v == "true" || v == "false" {
				return v == "true", nil
			}
		}
		return nil, fmt.Errorf("%w: field %q expects a boolean", apperrors.ErrValidation, field.Name)
	case models.FieldTypeSelect:
		v := valueString(raw)
		if field.OptionByValue(v) == nil {
			return nil, fmt.Errorf("%w: %q is not an option of field %q", apperrors.ErrValidation, v, field.Name)
		}
		return v, nil
	default: // text, date
		return valueString(raw), nil
	}
}
