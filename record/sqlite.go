package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/milk9111/starchase/chase"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRecord is one recorded pass through the sequence.
type RunRecord struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Started   time.Time
	FPS       int
	Duration  float64
	Shots     datatypes.JSON

	Frames       int
	CostMeanMs   float64
	CostStdDevMs float64
	CostP95Ms    float64
	MeanDistance float64
	CameraTravel float64
	Finished     bool

	Samples []FrameSample `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// FrameSample is one frame of a RunRecord.
type FrameSample struct {
	ID      uint `gorm:"primarykey"`
	RunID   uint `gorm:"index"`
	Tick    int
	Elapsed float64
	Delta   float64
	Shot    string
	Done    bool

	TargetX, TargetY, TargetZ float64
	ChaserX, ChaserY, ChaserZ float64
	CameraX, CameraY, CameraZ float64
	LookAt                    datatypes.JSON
	Weights                   datatypes.JSON
	CostNs                    int64
}

const sampleBatch = 240

// SQLiteSink stores runs in a SQLite file through gorm.
type SQLiteSink struct {
	db      *gorm.DB
	run     *RunRecord
	pending []FrameSample
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        sampleBatch,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}

	if err := prepare(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

var pragmas = []string{
	"PRAGMA journal_mode = MEMORY;",
	"PRAGMA synchronous = OFF;",
	"PRAGMA foreign_keys = ON;",
}

func prepare(db *gorm.DB) error {
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("record: %s: %w", p, err)
		}
	}
	if err := db.AutoMigrate(&RunRecord{}, &FrameSample{}); err != nil {
		return fmt.Errorf("record: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteSink) OnStart(h Header) error {
	shots, err := json.Marshal(h.Shots)
	if err != nil {
		return err
	}
	s.run = &RunRecord{
		Started:  h.Started,
		FPS:      h.FPS,
		Duration: h.Duration,
		Shots:    datatypes.JSON(shots),
	}
	s.pending = s.pending[:0]
	return s.db.Create(s.run).Error
}

func (s *SQLiteSink) OnFrame(f chase.Frame) error {
	if s.run == nil {
		return fmt.Errorf("record: frame before start")
	}
	weights, err := json.Marshal(f.Weights)
	if err != nil {
		return err
	}
	lookAt, err := json.Marshal(f.LookAt)
	if err != nil {
		return err
	}
	s.pending = append(s.pending, FrameSample{
		RunID:   s.run.ID,
		Tick:    f.Tick,
		Elapsed: f.Elapsed,
		Delta:   f.Delta,
		Shot:    f.Shot.String(),
		Done:    f.Done,
		TargetX: f.Target.Position[0],
		TargetY: f.Target.Position[1],
		TargetZ: f.Target.Position[2],
		ChaserX: f.Chaser.Position[0],
		ChaserY: f.Chaser.Position[1],
		ChaserZ: f.Chaser.Position[2],
		CameraX: f.Camera.Position[0],
		CameraY: f.Camera.Position[1],
		CameraZ: f.Camera.Position[2],
		LookAt:  datatypes.JSON(lookAt),
		Weights: datatypes.JSON(weights),
		CostNs:  f.Cost.Nanoseconds(),
	})
	if len(s.pending) >= sampleBatch {
		return s.flush()
	}
	return nil
}

func (s *SQLiteSink) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(&s.pending, sampleBatch).Error; err != nil {
		return fmt.Errorf("record: insert samples: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

func (s *SQLiteSink) OnEnd(sum Summary) error {
	if s.run == nil {
		return fmt.Errorf("record: end before start")
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.run.Frames = sum.Frames
	s.run.CostMeanMs = sum.CostMeanMs
	s.run.CostStdDevMs = sum.CostStdDevMs
	s.run.CostP95Ms = sum.CostP95Ms
	s.run.MeanDistance = sum.MeanDistance
	s.run.CameraTravel = sum.CameraTravel
	s.run.Finished = true
	return s.db.Model(s.run).
		Select("Frames", "CostMeanMs", "CostStdDevMs", "CostP95Ms", "MeanDistance", "CameraTravel", "Finished").
		Updates(s.run).Error
}

// Runs lists stored runs, newest first, without their samples.
func (s *SQLiteSink) Runs() ([]RunRecord, error) {
	var runs []RunRecord
	err := s.db.Order("id desc").Find(&runs).Error
	return runs, err
}

// Samples returns the frames of run id in tick order.
func (s *SQLiteSink) Samples(id uint) ([]FrameSample, error) {
	var samples []FrameSample
	err := s.db.Where("run_id = ?", id).Order("tick").Find(&samples).Error
	return samples, err
}

func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}
