package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"labqms/internal/domain/quality"
	"labqms/internal/errs"
	"labqms/internal/infrastructure/persistence/sqlite/model"
	"labqms/internal/ports"
)

type QualityRepository struct {
	db *gorm.DB
}

var _ ports.QualityRepository = (*QualityRepository)(nil)

func NewQualityRepository(db *gorm.DB) *QualityRepository {
	return &QualityRepository{db: db}
}

func (r *QualityRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *QualityRepository) ListInvestigations(ctx context.Context) ([]quality.Investigation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Investigation
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query investigations")
	}

	items := make([]quality.Investigation, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapInvestigation(row))
	}
	return items, nil
}

func (r *QualityRepository) GetInvestigation(ctx context.Context, id string) (quality.Investigation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.Investigation{}, err
	}

	var row model.Investigation
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.Investigation{}, quality.NotFoundError{Kind: "investigation", ID: id}
		}
		return quality.Investigation{}, errs.Wrap(err, "query investigation")
	}
	return mapInvestigation(row), nil
}

func (r *QualityRepository) CreateInvestigation(ctx context.Context, inv quality.Investigation) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Create(toInvestigationRow(inv)).Error; err != nil {
		return errs.Wrap(err, "insert investigation")
	}
	return nil
}

func (r *QualityRepository) UpdateInvestigation(ctx context.Context, inv quality.Investigation) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Investigation{}).Where("id = ?", inv.ID).Updates(toInvestigationRow(inv))
	if result.Error != nil {
		return errs.Wrap(result.Error, "update investigation")
	}
	if result.RowsAffected == 0 {
		return quality.NotFoundError{Kind: "investigation", ID: inv.ID}
	}
	return nil
}

// ReplaceInvestigations swaps the whole collection, the bulk-load path used
// by seeding. Callers wrap it in a unit of work for atomicity.
func (r *QualityRepository) ReplaceInvestigations(ctx context.Context, items []quality.Investigation) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("1 = 1").Delete(&model.Investigation{}).Error; err != nil {
		return errs.Wrap(err, "clear investigations")
	}
	for _, inv := range items {
		if err := db.Create(toInvestigationRow(inv)).Error; err != nil {
			return errs.Wrapf(err, "insert investigation %q", inv.ID)
		}
	}
	return nil
}

func (r *QualityRepository) GetDeviation(ctx context.Context, id string) (quality.Deviation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.Deviation{}, err
	}

	var row model.Deviation
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.Deviation{}, quality.NotFoundError{Kind: "deviation", ID: id}
		}
		return quality.Deviation{}, errs.Wrap(err, "query deviation")
	}
	return mapDeviation(row)
}

func (r *QualityRepository) CreateDeviation(ctx context.Context, dev quality.Deviation) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row, err := toDeviationRow(dev)
	if err != nil {
		return err
	}
	if err := db.Create(row).Error; err != nil {
		return errs.Wrap(err, "insert deviation")
	}
	return nil
}

func (r *QualityRepository) GetRCA(ctx context.Context, investigationID string) (quality.RootCauseAnalysis, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.RootCauseAnalysis{}, err
	}

	var row model.RCA
	if err := db.Where("investigation_id = ?", investigationID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.RootCauseAnalysis{}, quality.NotFoundError{Kind: "rca", ID: investigationID}
		}
		return quality.RootCauseAnalysis{}, errs.Wrap(err, "query rca")
	}
	return mapRCA(row)
}

func (r *QualityRepository) SaveRCA(ctx context.Context, rca quality.RootCauseAnalysis) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row, err := toRCARow(rca)
	if err != nil {
		return err
	}
	return upsertByID(db, "rca", row.ID, row)
}

func (r *QualityRepository) GetCAPA(ctx context.Context, investigationID string) (quality.CAPA, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.CAPA{}, err
	}

	var row model.CAPA
	if err := db.Where("investigation_id = ?", investigationID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.CAPA{}, quality.NotFoundError{Kind: "capa", ID: investigationID}
		}
		return quality.CAPA{}, errs.Wrap(err, "query capa")
	}
	return mapCAPA(row)
}

func (r *QualityRepository) SaveCAPA(ctx context.Context, capa quality.CAPA) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row, err := toCAPARow(capa)
	if err != nil {
		return err
	}
	return upsertByID(db, "capa", row.ID, row)
}

func (r *QualityRepository) ListSOPs(ctx context.Context) ([]quality.SOPDocument, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.SOPDocument
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query sop documents")
	}

	items := make([]quality.SOPDocument, 0, len(rows))
	for _, row := range rows {
		sop, err := mapSOP(row)
		if err != nil {
			return nil, err
		}
		items = append(items, sop)
	}
	return items, nil
}

func (r *QualityRepository) GetSOP(ctx context.Context, id string) (quality.SOPDocument, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.SOPDocument{}, err
	}

	var row model.SOPDocument
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.SOPDocument{}, quality.NotFoundError{Kind: "sop", ID: id}
		}
		return quality.SOPDocument{}, errs.Wrap(err, "query sop document")
	}
	return mapSOP(row)
}

func (r *QualityRepository) SaveSOP(ctx context.Context, sop quality.SOPDocument) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row, err := toSOPRow(sop)
	if err != nil {
		return err
	}
	return upsertByID(db, "sop", row.ID, row)
}

func (r *QualityRepository) ListReports(ctx context.Context) ([]quality.Report, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Report
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query reports")
	}

	items := make([]quality.Report, 0, len(rows))
	for _, row := range rows {
		report, err := mapReport(row)
		if err != nil {
			return nil, err
		}
		items = append(items, report)
	}
	return items, nil
}

func (r *QualityRepository) GetReport(ctx context.Context, id string) (quality.Report, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return quality.Report{}, err
	}

	var row model.Report
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quality.Report{}, quality.NotFoundError{Kind: "report", ID: id}
		}
		return quality.Report{}, errs.Wrap(err, "query report")
	}
	return mapReport(row)
}

func (r *QualityRepository) SaveReport(ctx context.Context, report quality.Report) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row, err := toReportRow(report)
	if err != nil {
		return err
	}
	return upsertByID(db, "report", row.ID, row)
}

// upsertByID saves the full row, inserting when the id is new. gorm's Save
// does the update-or-insert for primary-keyed structs.
func upsertByID(db *gorm.DB, kind string, id string, row any) error {
	if id == "" {
		return quality.ValidationError{Field: "id", Reason: kind + " id is required"}
	}
	if err := db.Save(row).Error; err != nil {
		return errs.Wrapf(err, "save %s %q", kind, id)
	}
	return nil
}
