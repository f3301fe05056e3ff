package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeker is the job-seeker profile attached to a user with the seeker role.
type Seeker struct {
	gorm.Model
	UserID          uint           `json:"userID" gorm:"uniqueIndex;not null"`
	User            User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Headline        string         `json:"headline" gorm:"size:200"`
	Bio             string         `json:"bio" gorm:"type:text"`
	ResumeURL       string         `json:"resumeURL" gorm:"size:512"`
	Skills          datatypes.JSON `json:"skills"`
	ExperienceYears int            `json:"experienceYears"`
	Location        string         `json:"location" gorm:"size:200;index"`
	OpenToWork      bool           `json:"openToWork" gorm:"default:true;index"`
}

func (s *Seeker) MarshalJSON() ([]byte, error) {
	type Alias Seeker
	aux := &struct {
		Skills []string `json:"skills,omitempty"`
		*Alias
	}{
		Skills: []string{},
		Alias:  (*Alias)(s),
	}

	if s.Skills != nil {
		var skills []string
		if err := json.Unmarshal(s.Skills, &skills); err == nil {
			aux.Skills = skills
		}
	}

	return json.Marshal(aux)
}
