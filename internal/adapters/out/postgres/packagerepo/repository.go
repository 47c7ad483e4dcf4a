package packagerepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPackageRepository implements ports.PackageRepository using GORM.
// The database must be opened with TranslateError so that unique violations
// surface as gorm.ErrDuplicatedKey.
type GormPackageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every package the repository saved.
type aggregateTracker interface {
	TrackAggregate(ctx context.Context, aggregate *parcel.Package)
}

func NewGormPackageRepository(db *gorm.DB, tracker aggregateTracker) *GormPackageRepository {
	return &GormPackageRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPackageRepository) Add(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.ID().IsZero() {
		return fmt.Errorf("package %s is already stored", aggregate.ID())
	}

	id := kernel.NewUUID()
	dto := fromDomain(id.Google(), aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ports.ErrTrackingNumberTaken, dto.TrackingNumber)
		}
		return err
	}

	if err := aggregate.AssignID(id); err != nil {
		return err
	}
	aggregate.MarkSaved(dto.Version)
	r.tracker.TrackAggregate(ctx, aggregate)
	return nil
}

// Update advances the row only if it is still at the loaded version, then
// appends the unsaved history. Run it inside a transaction so that both
// statements land together.
func (r *GormPackageRepository) Update(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}

	unsaved := aggregate.UnsavedHistory()
	if len(unsaved) == 0 {
		return nil
	}

	db := r.db.WithContext(ctx)
	id := aggregate.ID().Google()
	next := aggregate.Version() + 1

	result := db.Model(&PackageDTO{}).
		Where("id = ? AND version = ?", id, aggregate.Version()).
		Updates(map[string]any{
			"current_status": aggregate.CurrentStatus().String(),
			"last_updated":   aggregate.LastUpdated(),
			"version":        next,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.updateConflict(ctx, aggregate)
	}

	first := len(aggregate.History()) - len(unsaved)
	rows := eventsFromDomain(id, first, unsaved)
	if err := db.Create(&rows).Error; err != nil {
		return err
	}

	aggregate.MarkSaved(next)
	r.tracker.TrackAggregate(ctx, aggregate)
	return nil
}

func (r *GormPackageRepository) updateConflict(ctx context.Context, aggregate *parcel.Package) error {
	var stored []int64
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).
		Where("id = ?", aggregate.ID().Google()).
		Pluck("version", &stored).Error
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return errs.NewObjectNotFoundError("packageID", aggregate.ID().String())
	}
	return errs.NewVersionIsInvalidErrorWithCause("version",
		fmt.Errorf("package %s: expected %d, stored %d", aggregate.ID(), aggregate.Version(), stored[0]))
}

func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.withHistory(ctx), "packageID", id.String(), "id = ?", id.Google())
}

// GetForUpdate holds a row lock on the package until the transaction ends.
func (r *GormPackageRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	db := r.withHistory(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(db, "packageID", id.String(), "id = ?", id.Google())
}

func (r *GormPackageRepository) GetByTrackingNumber(
	ctx context.Context,
	trackingNumber kernel.TrackingNumber,
) (*parcel.Package, error) {
	if err := trackingNumber.Validate(); err != nil {
		return nil, err
	}
	tn := trackingNumber.String()
	return r.first(r.withHistory(ctx), "trackingNumber", tn, "tracking_number = ?", tn)
}

func (r *GormPackageRepository) ExistsByTrackingNumber(
	ctx context.Context,
	trackingNumber kernel.TrackingNumber,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).
		Where("tracking_number = ?", trackingNumber.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPackageRepository) List(ctx context.Context, filter ports.PackageFilter) ([]*parcel.Package, error) {
	query := r.withHistory(ctx)
	if fragment := strings.TrimSpace(filter.TrackingNumber); fragment != "" {
		query = query.Where(`tracking_number ILIKE ? ESCAPE '\'`, "%"+escapeLike(fragment)+"%")
	}
	if filter.Status != nil {
		query = query.Where("current_status = ?", filter.Status.String())
	}

	var dtos []PackageDTO
	if err := query.Order("created_at, tracking_number").Find(&dtos).Error; err != nil {
		return nil, err
	}

	packages := make([]*parcel.Package, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

func (r *GormPackageRepository) CountByStatus(ctx context.Context) (map[parcel.Status]int64, error) {
	var rows []struct {
		CurrentStatus string
		Count         int64
	}
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).
		Select("current_status, count(*) AS count").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[parcel.Status]int64, len(rows))
	for _, row := range rows {
		status, parseErr := parcel.ParseStatus(row.CurrentStatus)
		if parseErr != nil {
			return nil, parseErr
		}
		counts[status] = row.Count
	}
	return counts, nil
}

func (r *GormPackageRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence")
	})
}

func (r *GormPackageRepository) first(db *gorm.DB, param, value string, query string, args ...any) (*parcel.Package, error) {
	var dto PackageDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, value)
		}
		return nil, err
	}
	return toDomain(dto)
}

// escapeLike makes s match literally inside a LIKE pattern with ESCAPE '\'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
