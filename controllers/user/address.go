package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type AddressInput struct {
	Recipient string `json:"recipient" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Street    string `json:"street"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	City      string `json:"city"`
	IsDefault bool   `json:"is_default"`
}

// GET /api/addresses
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addresses []models.Address
		if err := db.
			Where("user_id = ?", middleware.UserID(c)).
			Order("is_default DESC, created_at DESC").
			Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": addresses})
	}
}

// POST /api/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		address := models.Address{
			UserID:    userID,
			Recipient: input.Recipient,
			Phone:     input.Phone,
			Street:    input.Street,
			Ward:      input.Ward,
			District:  input.District,
			City:      input.City,
			IsDefault: input.IsDefault,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if input.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": address})
	}
}

// PUT /api/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var address models.Address
		if err := db.First(&address, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "address not found"})
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if input.IsDefault && !address.IsDefault {
				if err := tx.Model(&models.Address{}).
					Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Model(&address).Updates(map[string]interface{}{
				"recipient":  input.Recipient,
				"phone":      input.Phone,
				"street":     input.Street,
				"ward":       input.Ward,
				"district":   input.District,
				"city":       input.City,
				"is_default": input.IsDefault,
			}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}

// DELETE /api/addresses/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
			Delete(&models.Address{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "address not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "address deleted"})
	}
}

// PUT /api/addresses/:id/default
func SetDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var address models.Address
		if err := db.First(&address, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "address not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			return tx.Model(&address).Update("is_default", true).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}
