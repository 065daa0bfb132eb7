package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"time"

	"pitchlab/models"
	"pitchlab/pkg/extract"
	"pitchlab/pkg/recognize"
	"pitchlab/pkg/stuffplus"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// recognizer is swappable so tests can avoid a real tesseract dependency.
var recognizer recognize.Recognizer = recognize.NewTesseract()

func setupRoutes(r *gin.Engine) {
	r.GET("/health", healthHandler)
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/profile", createProfileHandler)
	authGroup.GET("/profile", getProfileHandler)
	authGroup.POST("/pitches", createPitchHandler)
	authGroup.GET("/pitches", listPitchesHandler)
	authGroup.DELETE("/pitches/:id", deletePitchHandler)
	authGroup.POST("/uploads", uploadScreenHandler)
	authGroup.GET("/uploads", listUploadsHandler)
	authGroup.GET("/uploads/:id", getUploadHandler)
	authGroup.POST("/predict", predictHandler)
	authGroup.POST("/predict/suggest", suggestHandler)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := Register(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func createProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name         string   `json:"name" binding:"required"`
		Throws       string   `json:"throws"`
		Team         string   `json:"team"`
		Level        string   `json:"level"`
		FastballVelo *float64 `json:"fastball_velo"`
		FastballIVB  *float64 `json:"fastball_ivb"`
		FastballHMov *float64 `json:"fastball_hmov"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Throws != "" && req.Throws != "R" && req.Throws != "L" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "throws must be R or L"})
		return
	}
	profile := models.Profile{
		UserID:       user.ID,
		Name:         req.Name,
		Throws:       req.Throws,
		Team:         req.Team,
		Level:        req.Level,
		FastballVelo: req.FastballVelo,
		FastballIVB:  req.FastballIVB,
		FastballHMov: req.FastballHMov,
	}
	if err := db.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": profile.ID})
}

func getProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var p models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// createPitchHandler stores a manually entered pitch for the authenticated user.
func createPitchHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		PitchType        string   `json:"pitch_type"`
		Hand             string   `json:"hand"`
		Speed            *float64 `json:"speed"`
		TotalSpin        *float64 `json:"total_spin"`
		TrueSpin         *float64 `json:"true_spin"`
		SpinEfficiency   *float64 `json:"spin_efficiency"`
		ActiveSpin       *float64 `json:"active_spin"`
		InducedVertBreak *float64 `json:"induced_vertical_break"`
		HorzBreak        *float64 `json:"horizontal_break"`
		ReleaseHeight    *float64 `json:"release_height"`
		ReleaseSide      *float64 `json:"release_side"`
		Extension        *float64 `json:"extension"`
		Gyro             *float64 `json:"gyro"`
		Tilt             string   `json:"tilt"`
		SpinAxis         *float64 `json:"spin_axis"`
		Notes            string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PitchType != "" {
		if _, ok := stuffplus.ValidPitchTypes[req.PitchType]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pitch type"})
			return
		}
	}
	var profileID *uint
	var profile models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		profileID = &profile.ID
	}
	p := models.Pitch{
		UserID:           user.ID,
		ProfileID:        profileID,
		PitchType:        req.PitchType,
		Hand:             req.Hand,
		Speed:            req.Speed,
		TotalSpin:        req.TotalSpin,
		TrueSpin:         req.TrueSpin,
		SpinEfficiency:   req.SpinEfficiency,
		ActiveSpin:       req.ActiveSpin,
		InducedVertBreak: req.InducedVertBreak,
		HorzBreak:        req.HorzBreak,
		ReleaseHeight:    req.ReleaseHeight,
		ReleaseSide:      req.ReleaseSide,
		Extension:        req.Extension,
		Gyro:             req.Gyro,
		Tilt:             req.Tilt,
		SpinAxis:         req.SpinAxis,
		Notes:            req.Notes,
	}
	if err := db.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// listPitchesHandler lists recent pitches for the authenticated user (admin sees all).
func listPitchesHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Pitch
	q := db.Model(&models.Pitch{})
	if role != "administrator" {
		q = q.Where("user_id = ?", user.ID)
	}
	if pt := c.Query("pitch_type"); pt != "" {
		q = q.Where("pitch_type = ?", pt)
	}
	if pid := c.Query("profile_id"); pid != "" {
		q = q.Where("profile_id = ?", pid)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// deletePitchHandler removes a pitch if admin or owner.
func deletePitchHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id := c.Param("id")
	var p models.Pitch
	if err := db.First(&p, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != "administrator" && p.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := db.Delete(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id now).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// create refresh token
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	// load user
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// create access token
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// uploadScreenHandler accepts a readout screen image, runs recognition and
// reconciliation, and stores the resulting pitch alongside the upload record.
func uploadScreenHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// ensure profile exists
	var profile models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile missing"})
		return
	}
	folder := c.PostForm("folder")
	if folder == "" {
		folder = "screens"
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	ct := file.Header.Get("Content-Type")
	baseDir := uploadBaseDir()
	relPath := folder + "/" + file.Filename
	fullPath := baseDir + "/" + relPath
	if err := os.MkdirAll(baseDir+"/"+folder, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// If an upload record for this profile+filename already exists, return it
	// instead of re-running recognition.
	var existingUp models.Upload
	if err := db.Where("profile_id = ? AND file_name = ?", profile.ID, file.Filename).First(&existingUp).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"id": existingUp.ID, "path": relPath, "store_path": existingUp.StorePath, "pitch_id": existingUp.PitchID})
		return
	}

	storePath := "public/" + relPath
	up := models.Upload{ProfileID: profile.ID, FileName: file.Filename, StorePath: storePath, ContentType: ct}
	if err := db.Create(&up).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}

	fragments, err := recognizer.Fragments(fullPath)
	if err != nil {
		up.Failed = true
		up.FailedReason = err.Error()
		db.Save(&up)
		c.JSON(http.StatusOK, gin.H{"id": up.ID, "path": relPath, "store_path": storePath, "failed": true, "failed_reason": up.FailedReason})
		return
	}
	rec := extract.ExtractRecord(extract.NewCorpus(fragments))
	if rec.Confidence() == extract.ConfidenceNone {
		up.Failed = true
		up.FailedReason = "no readings recognized"
		db.Save(&up)
		c.JSON(http.StatusOK, gin.H{"id": up.ID, "path": relPath, "store_path": storePath, "failed": true, "failed_reason": up.FailedReason})
		return
	}

	pitch := pitchFromRecord(rec, user.ID, &profile.ID)
	if err := db.Create(pitch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pitch save failed"})
		return
	}
	up.PitchID = &pitch.ID
	db.Save(&up)
	c.JSON(http.StatusOK, gin.H{
		"id":         up.ID,
		"path":       relPath,
		"store_path": storePath,
		"pitch_id":   pitch.ID,
		"record":     rec,
		"confidence": rec.Confidence(),
		"missing":    rec.MissingFields(),
	})
}

// pitchFromRecord maps a reconciled record onto the stored pitch row.
func pitchFromRecord(rec *extract.Record, userID uint, profileID *uint) *models.Pitch {
	p := &models.Pitch{
		UserID:           userID,
		ProfileID:        profileID,
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

// listUploadsHandler returns uploads; admin sees all, user only own profile's uploads.
func listUploadsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var profile models.Profile
	db.Where("user_id = ?", user.ID).First(&profile)
	var uploads []models.Upload
	q := db.Model(&models.Upload{})
	if role != "administrator" {
		q = q.Where("profile_id = ?", profile.ID)
	}
	if err := q.Order("id desc").Limit(100).Find(&uploads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, uploads)
}

// getUploadHandler returns single upload if admin or owner.
func getUploadHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var profile models.Profile
	db.Where("user_id = ?", user.ID).First(&profile)
	id := c.Param("id")
	var up models.Upload
	if err := db.First(&up, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != "administrator" && up.ProfileID != profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, up)
}

// scoringClient builds a client for the external scoring service.
func scoringClient() *stuffplus.Client {
	base := os.Getenv("STUFF_API_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	return stuffplus.NewClient(base)
}

// predictHandler proxies a pitch to the scoring service and applies the
// velocity penalty to the raw model score.
func predictHandler(c *gin.Context) {
	var req stuffplus.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := scoringClient().Predict(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	adjusted, penalty := stuffplus.VelocityPenalty(req.PitchType, req.ReleaseSpeed, req.PfxZ*12, resp.StuffPlusRaw)
	c.JSON(http.StatusOK, gin.H{
		"stuff_plus":       stuffplus.Clip(adjusted),
		"stuff_plus_raw":   resp.StuffPlusRaw,
		"velocity_penalty": penalty,
	})
}

// suggestHandler asks the scoring service which small tweak helps the most.
func suggestHandler(c *gin.Context) {
	var req stuffplus.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	suggestion, err := scoringClient().Suggest(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
