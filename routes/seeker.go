package routes

import (
	"encoding/json"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// GetSeekerProfile returns the authenticated user's seeker profile
func GetSeekerProfile(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var seeker models.Seeker
	if err := storage.DB.Where("user_id = ?", userID).First(&seeker).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, &seeker)
}

// CreateOrUpdateSeekerProfile upserts the seeker profile for the current user
func CreateOrUpdateSeekerProfile(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var input SeekerProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	skills, _ := json.Marshal(input.Skills)

	var seeker models.Seeker
	err := storage.DB.Where("user_id = ?", userID).First(&seeker).Error
	if err != nil {
		seeker = models.Seeker{UserID: userID}
	}

	seeker.Headline = input.Headline
	seeker.Bio = input.Bio
	seeker.ResumeURL = input.ResumeURL
	seeker.Skills = skills
	seeker.ExperienceYears = input.ExperienceYears
	seeker.Location = input.Location
	if input.OpenToWork != nil {
		seeker.OpenToWork = *input.OpenToWork
	}

	if err := storage.DB.Save(&seeker).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, &seeker)
}

func DeleteSeekerProfile(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	result := storage.DB.Where("user_id = ?", userID).Delete(&models.Seeker{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, iris.Map{"deleted": true})
}

type SeekerProfileInput struct {
	Headline        string   `json:"headline" validate:"max=200"`
	Bio             string   `json:"bio" validate:"max=5000"`
	ResumeURL       string   `json:"resumeURL" validate:"omitempty,url"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears" validate:"min=0,max=80"`
	Location        string   `json:"location" validate:"max=200"`
	OpenToWork      *bool    `json:"openToWork"`
}
