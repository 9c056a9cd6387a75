package repository

import (
	"context"

	"gorm.io/gorm"

	"lpatrack/backend/internal/model"
)

// UserFilter 用户查询条件
type UserFilter struct {
	Role            string
	BelongTo        string
	IncludeInactive bool
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, username, hashed string) error
	Delete(ctx context.Context, username string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	var users []model.User
	db := r.db.WithContext(ctx)

	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.BelongTo != "" {
		db = db.Where("belong_to = ?", filter.BelongTo)
	}
	if !filter.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("role ASC, username ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, username, hashed string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"password":   hashed,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *userRepo) Delete(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).
		Where("username = ?", username).
		Delete(&model.User{}).Error
}
