package trashstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
)

var (
	// ErrItemNotFound возвращается, когда элемент корзины не найден
	ErrItemNotFound = errors.New("trashstore: item not found")
)

// Store локальный индекс элементов корзины поверх SQLite.
// Реализует интерфейс TrashItemProvider планировщика предупреждений.
type Store struct {
	db *gorm.DB
}

// Open открывает (и при необходимости создает) базу индекса корзины
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("trashstore: failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&trashItemModel{}); err != nil {
		return nil, fmt.Errorf("trashstore: schema migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("trashstore: failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Register добавляет элемент в индекс корзины.
// Пустой id заменяется новым UUID; возвращается сохранённый элемент.
func (s *Store) Register(ctx context.Context, item domain.TrashItem) (domain.TrashItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.TrashedAt.IsZero() {
		item.TrashedAt = time.Now()
	}

	model := fromDomain(item)
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return domain.TrashItem{}, fmt.Errorf("trashstore: failed to register item: %w", err)
	}

	return model.toDomain(), nil
}

// Remove удаляет элемент из индекса
func (s *Store) Remove(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&trashItemModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("trashstore: failed to remove item %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// FetchAllTrashItems возвращает все элементы корзины, ближайшие к
// истечению первыми; пустой срез, если корзина пуста
func (s *Store) FetchAllTrashItems(ctx context.Context) ([]domain.TrashItem, error) {
	var models []trashItemModel
	if err := s.db.WithContext(ctx).Order("expires_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("trashstore: failed to fetch items: %w", err)
	}

	items := make([]domain.TrashItem, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDomain())
	}
	return items, nil
}

// PurgeExpired удаляет элементы с истёкшим сроком хранения.
// Возвращает число удалённых элементов.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&trashItemModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("trashstore: failed to purge expired items: %w", result.Error)
	}
	return result.RowsAffected, nil
}
