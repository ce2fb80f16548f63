// Package history records finished generations so the API can list what
// the service produced, backed by sqlite or postgres through gorm.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
)

// Generation is one pipeline run, successful or not.
type Generation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Mode        string         `gorm:"size:32" json:"mode"`
	Filename    string         `json:"filename"`
	Title       string         `json:"title"`
	SubjectArea string         `gorm:"size:32" json:"subject_area"`
	Difficulty  string         `gorm:"size:32" json:"difficulty"`
	Topics      datatypes.JSON `json:"topics"`
	AssetCount  int            `json:"asset_count"`
	AudioCount  int            `json:"audio_count"`
	DurationMS  int64          `gorm:"column:duration_ms" json:"duration_ms"`
	PreviewURL  string         `json:"preview_url"`
	Status      string         `gorm:"size:32" json:"status"`
	ErrorCode   string         `gorm:"size:64" json:"error_code"`
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TopicsJSON packs topic strings for the Topics column.
func TopicsJSON(topics []string) datatypes.JSON {
	if topics == nil {
		topics = []string{}
	}
	b, _ := json.Marshal(topics)
	return datatypes.JSON(b)
}

type Store interface {
	Record(ctx context.Context, g *Generation) error
	Recent(ctx context.Context, limit int) ([]Generation, error)
}

type store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects the configured driver and migrates the schema. A "none"
// (or empty) driver disables history: Open returns (nil, nil) and the
// caller skips recording.
func Open(log *logger.Logger, cfg config.HistoryConfig) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}

	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("history: sqlite driver requires a dsn")
		}
		if !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create history dir: %w", err)
				}
			}
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("history: unknown driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Generation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	serviceLog := log.With("service", "History", "driver", driver)
	serviceLog.Info("Generation history ready")

	return &store{db: db, log: serviceLog}, nil
}

func (s *store) Record(ctx context.Context, g *Generation) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *store) Recent(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Generation
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
