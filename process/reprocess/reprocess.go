package reprocess

import (
	"log"
	"os"
	"path/filepath"

	"pitchlab/models"
	"pitchlab/pkg/extract"
	"pitchlab/pkg/recognize"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// Run re-runs recognition on uploads previously marked failed (or all
// unlinked uploads when includeUnlinked is set). Images are resolved
// relative to baseDir using each upload's store path. If dry is true,
// only proposed changes are printed.
func Run(baseDir string, dry, includeUnlinked bool) error {
	gdb := mustDBFromEnv()
	rec := recognize.NewTesseract()

	q := gdb.Model(&models.Upload{})
	if includeUnlinked {
		q = q.Where("failed = ? OR pitch_id IS NULL", true)
	} else {
		q = q.Where("failed = ?", true)
	}
	var uploads []models.Upload
	if err := q.Find(&uploads).Error; err != nil {
		return err
	}
	log.Printf("reprocessing %d uploads", len(uploads))

	for i := range uploads {
		up := &uploads[i]
		full := filepath.Join(baseDir, up.StorePath)
		if _, err := os.Stat(full); err != nil {
			log.Printf("missing file for upload id=%d: %s", up.ID, full)
			continue
		}
		fragments, err := rec.Fragments(full)
		if err != nil {
			log.Printf("recognition error %s: %v", up.FileName, err)
			continue
		}
		record := extract.ExtractRecord(extract.NewCorpus(fragments))
		if record.Confidence() == extract.ConfidenceNone {
			log.Printf("still no readings %s", up.FileName)
			continue
		}

		if dry {
			log.Printf("DRY: would link upload id=%d file=%s confidence=%s missing=%v",
				up.ID, up.FileName, record.Confidence(), record.MissingFields())
			continue
		}

		var profile models.Profile
		if err := gdb.First(&profile, up.ProfileID).Error; err != nil {
			log.Printf("profile missing for upload id=%d: %v", up.ID, err)
			continue
		}
		pitch := pitchFromRecord(record, profile.UserID, profile.ID)
		if err := gdb.Create(pitch).Error; err != nil {
			log.Printf("failed create pitch for %s: %v", up.FileName, err)
			continue
		}
		up.PitchID = &pitch.ID
		up.Failed = false
		up.FailedReason = ""
		if err := gdb.Save(up).Error; err != nil {
			log.Printf("failed update upload %s: %v", up.FileName, err)
			continue
		}
		log.Printf("linked upload id=%d file=%s pitch=%d confidence=%s", up.ID, up.FileName, pitch.ID, record.Confidence())
	}
	return nil
}

func pitchFromRecord(rec *extract.Record, userID, profileID uint) *models.Pitch {
	p := &models.Pitch{
		UserID:           userID,
		ProfileID:        &profileID,
		Speed:            rec.Speed,
		TotalSpin:        rec.TotalSpin,
		SpinEfficiency:   rec.Efficiency,
		ActiveSpin:       rec.ActiveSpin,
		InducedVertBreak: rec.IVB,
		HorzBreak:        rec.HB,
		ReleaseHeight:    rec.ReleaseHeight,
		ReleaseSide:      rec.ReleaseSide,
		Extension:        rec.Extension,
		Gyro:             rec.Gyro,
		SpinAxis:         rec.SpinAxis,
	}
	if rec.Tilt != nil {
		p.Tilt = *rec.Tilt
	}
	if rec.PitchType != nil {
		p.PitchType = *rec.PitchType
	}
	if rec.Hand != nil {
		p.Hand = *rec.Hand
	}
	return p
}
