package report

import (
	"fmt"
	"log"
	"os"
	"time"

	"pitchlab/models"

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

// RunReport prints a month-bounded per-pitch-type summary for username
// (month in YYYY-MM) and optionally lists matching pitch rows.
func RunReport(username, month string, list bool) {
	gdb := mustDBFromEnv()

	var user models.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	t, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	type line struct {
		PitchType string
		Cnt       int64
		AvgSpeed  float64
		AvgSpin   float64
		AvgIVB    float64
		AvgHB     float64
	}
	var lines []line
	err = gdb.Raw(`SELECT COALESCE(NULLIF(pitch_type,''),'?') AS pitch_type,
			COUNT(*) AS cnt,
			COALESCE(AVG(speed),0) AS avg_speed,
			COALESCE(AVG(total_spin),0) AS avg_spin,
			COALESCE(AVG(induced_vert_break),0) AS avg_ivb,
			COALESCE(AVG(horz_break),0) AS avg_hb
		FROM pitches
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		GROUP BY 1 ORDER BY cnt DESC`, user.ID, start, end).Scan(&lines).Error
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	fmt.Printf("Report for user=%s month=%s (UTC):\n", user.Username, month)
	for _, l := range lines {
		fmt.Printf("  %-3s n=%-4d avg_speed=%.1f avg_spin=%.0f avg_ivb=%.1f avg_hb=%.1f\n",
			l.PitchType, l.Cnt, l.AvgSpeed, l.AvgSpin, l.AvgIVB, l.AvgHB)
	}

	if list {
		var rows []models.Pitch
		if err := gdb.Where("user_id = ? AND created_at >= ? AND created_at < ?", user.ID, start, end).Order("id").Find(&rows).Error; err != nil {
			log.Fatalf("fetch rows failed: %v", err)
		}
		for _, r := range rows {
			fmt.Printf("%d|%s|%s|%s|%s\n", r.ID, r.PitchType, fmtPtr(r.Speed), r.Tilt, r.CreatedAt.Format(time.RFC3339))
		}
	}
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
