package adminControllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

func uploadDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return filepath.Join(dir, "banners")
	}
	return "./uploads/banners"
}

func publicURL() string {
	if u := os.Getenv("PUBLIC_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

// POST /api/banners (seller)
// Saves the image locally and creates the banner in pending state; it stays
// invisible until an admin approves it.
func UploadBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, fileHeader, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no image uploaded"})
			return
		}
		defer file.Close()

		dir := uploadDir()
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create upload folder"})
			return
		}

		origName := fileHeader.Filename
		ext := filepath.Ext(origName)
		baseName := strings.TrimSuffix(origName, ext)
		baseName = strings.ReplaceAll(baseName, " ", "_")

		newFileName := fmt.Sprintf("%d_%s%s", time.Now().Unix(), baseName, ext)
		savePath := filepath.Join(dir, newFileName)

		if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save file"})
			return
		}

		banner := models.Banner{
			SellerID: middleware.UserID(c),
			Title:    c.PostForm("title"),
			LinkURL:  c.PostForm("link_url"),
			ImageURL: fmt.Sprintf("%s/uploads/banners/%s", publicURL(), newFileName),
			Status:   models.BannerStatusPending,
		}
		if err := db.Create(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": banner})
	}
}

// GET /api/banners (public) — approved banners only, cached.
func GetActiveBanners(db *gorm.DB, cc cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := cc.GenerateKey("banners", "active")

		if cached, err := cc.Get(ctx, key); err == nil && cached != "" {
			var banners []models.Banner
			if json.Unmarshal([]byte(cached), &banners) == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "data": banners})
				return
			}
		}

		var banners []models.Banner
		if err := db.
			Where("status = ?", models.BannerStatusApproved).
			Order("created_at DESC").
			Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		if payload, err := json.Marshal(banners); err == nil {
			if err := cc.Set(ctx, key, payload, 5*time.Minute); err != nil {
				slog.Warn("banner cache set failed", "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": banners})
	}
}

// GET /api/banners/pending (admin)
func GetPendingBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.
			Where("status = ?", models.BannerStatusPending).
			Order("created_at ASC").
			Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": banners})
	}
}

// PUT /api/banners/:id/approve (admin)
func ApproveBanner(db *gorm.DB, cc cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Banner{}).
			Where("id = ? AND status = ?", c.Param("id"), models.BannerStatusPending).
			Update("status", models.BannerStatusApproved)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "pending banner not found"})
			return
		}

		if err := cc.Delete(c.Request.Context(), cc.GenerateKey("banners", "active")); err != nil {
			slog.Warn("banner cache invalidation failed", "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "banner approved"})
	}
}

// PUT /api/banners/:id/reject (admin)
func RejectBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&req)

		res := db.Model(&models.Banner{}).
			Where("id = ? AND status = ?", c.Param("id"), models.BannerStatusPending).
			Updates(map[string]interface{}{
				"status":        models.BannerStatusRejected,
				"reject_reason": req.Reason,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "pending banner not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "banner rejected"})
	}
}

// DELETE /api/banners/:id (admin)
func DeleteBanner(db *gorm.DB, cc cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Banner{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "banner not found"})
			return
		}

		if err := cc.Delete(c.Request.Context(), cc.GenerateKey("banners", "active")); err != nil {
			slog.Warn("banner cache invalidation failed", "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "banner deleted"})
	}
}
