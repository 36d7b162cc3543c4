package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/models"
)

const facebookGraphURL = "https://graph.facebook.com/me"

type facebookProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// fetchFacebookProfile validates the client's access token against the Graph
// API. Single best-effort request, no retry.
func fetchFacebookProfile(accessToken string) (*facebookProfile, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email,picture")
	q.Set("access_token", accessToken)

	resp, err := http.Get(facebookGraphURL + "?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to reach facebook: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook API error (%d): %s", resp.StatusCode, string(body))
	}

	var profile facebookProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse facebook response: %v", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("facebook returned no user id")
	}
	return &profile, nil
}

// POST /api/auth/facebook
func FacebookLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			AccessToken string `json:"access_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		profile, err := fetchFacebookProfile(req.AccessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		email := profile.Email
		if email == "" {
			// Graph omits email when the user hid it; synthesize a stable one.
			email = profile.ID + "@facebook.local"
		}

		var user models.User
		err = db.Where("email = ?", email).First(&user).Error

		if err == gorm.ErrRecordNotFound {
			hash, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
			user = models.User{
				ID:       uuid.NewString(),
				Email:    email,
				Password: string(hash),
				Name:     profile.Name,
				Avatar:   profile.Picture.Data.URL,
				Role:     models.RoleBuyer,
				Provider: "facebook",
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
		} else if err == nil {
			db.Model(&user).Updates(models.User{
				Name:   profile.Name,
				Avatar: profile.Picture.Data.URL,
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"user":  user,
			"token": IssueJWT(user.ID, user.Role),
		}})
	}
}
