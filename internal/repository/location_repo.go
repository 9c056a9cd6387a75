package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpatrack/backend/internal/model"
)

// LocationFilter 位置查询条件
type LocationFilter struct {
	Project string
	Family  string
	Line    string
	Crew    string
}

// LocationRepository 产线位置数据访问接口
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByCrew(ctx context.Context, crew string) (*model.Location, error)
	List(ctx context.Context, filter LocationFilter) ([]model.Location, error)
	Update(ctx context.Context, loc *model.Location) error
	Delete(ctx context.Context, crew string) error
	// UpsertByCrew 按 crew 写入或更新（Excel 导入用）
	UpsertByCrew(ctx context.Context, loc *model.Location) error
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) GetByCrew(ctx context.Context, crew string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("crew = ?", crew).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context, filter LocationFilter) ([]model.Location, error) {
	var locations []model.Location
	db := r.db.WithContext(ctx)

	if filter.Project != "" {
		db = db.Where("project = ?", filter.Project)
	}
	if filter.Family != "" {
		db = db.Where("family = ?", filter.Family)
	}
	if filter.Line != "" {
		db = db.Where("line = ?", filter.Line)
	}
	if filter.Crew != "" {
		db = db.Where("crew = ?", filter.Crew)
	}

	err := db.Order("project ASC, family ASC, line ASC, crew ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

func (r *locationRepo) Delete(ctx context.Context, crew string) error {
	return r.db.WithContext(ctx).
		Where("crew = ?", crew).
		Delete(&model.Location{}).Error
}

func (r *locationRepo) UpsertByCrew(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "crew"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"project":    loc.Project,
				"family":     loc.Family,
				"line":       loc.Line,
				"headcount":  loc.Headcount,
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(loc).Error
}
