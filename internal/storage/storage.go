package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinic-auth/internal/config"
	"github.com/clinicdesk/clinic-auth/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrClinicNotFound = errors.New("clinic not found")
)

// Storage is the persistence boundary for the auth subsystem. Audit entries
// are append-only: there is deliberately no update or delete path for them.
type Storage interface {
	CreateClinic(ctx context.Context, clinic *models.Clinic) error
	GetClinic(ctx context.Context, id uint) (*models.Clinic, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	SetUserActive(ctx context.Context, id uint, active bool) error
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error)
}

type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage opens the process-wide database handle, migrates the
// schema, and seeds demo data. Migration and seeding are idempotent so
// concurrent startup attempts are safe to race.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Clinic{}, &models.User{}, &models.AuditLog{}); err != nil {
		return nil, err
	}

	s := &PostgresStorage{db: db}
	if err := Seed(context.Background(), s); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

func (s *PostgresStorage) CreateClinic(ctx context.Context, clinic *models.Clinic) error {
	return s.db.WithContext(ctx).Create(clinic).Error
}

func (s *PostgresStorage) GetClinic(ctx context.Context, id uint) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := s.db.WithContext(ctx).First(&clinic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUserByUsername does a case-sensitive exact match.
func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) SetUserActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStorage) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *PostgresStorage) ListAuditLogs(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := s.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// InMemoryStorage backs tests and local experiments. Guarded by a mutex so
// concurrent sessions behave like they do against a real database.
type InMemoryStorage struct {
	mu        sync.RWMutex
	clinics   map[uint]*models.Clinic
	users     map[uint]*models.User
	auditLogs []models.AuditLog
	nextID    uint
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		clinics: make(map[uint]*models.Clinic),
		users:   make(map[uint]*models.User),
		nextID:  1,
	}
}

func (s *InMemoryStorage) CreateClinic(ctx context.Context, clinic *models.Clinic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clinic.ID == 0 {
		clinic.ID = s.nextID
	}
	if clinic.ID >= s.nextID {
		s.nextID = clinic.ID + 1
	}
	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = time.Now()
	}
	cp := *clinic
	s.clinics[clinic.ID] = &cp
	return nil
}

func (s *InMemoryStorage) GetClinic(ctx context.Context, id uint) (*models.Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clinic, ok := s.clinics[id]
	if !ok {
		return nil, ErrClinicNotFound
	}
	cp := *clinic
	return &cp, nil
}

func (s *InMemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username && u.ID != user.ID {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	if user.ID == 0 {
		user.ID = s.nextID
	}
	if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *InMemoryStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *InMemoryStorage) SetUserActive(ctx context.Context, id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func (s *InMemoryStorage) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.auditLogs = append(s.auditLogs, *entry)
	return nil
}

func (s *InMemoryStorage) ListAuditLogs(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []models.AuditLog
	for _, entry := range s.auditLogs {
		if entry.ClinicID == clinicID {
			logs = append(logs, entry)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	if offset > 0 {
		if offset >= len(logs) {
			return []models.AuditLog{}, nil
		}
		logs = logs[offset:]
	}
	if limit > 0 && limit < len(logs) {
		logs = logs[:limit]
	}
	return logs, nil
}

func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}
