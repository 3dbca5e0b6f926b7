package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the per-user aggregate. Nil pointers and nil slices are the
// "not provided" state and serialize as JSON null.
type Profile struct {
	ID             uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                       `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	User           User                            `gorm:"foreignKey:UserID" json:"-"`
	Company        *string                         `gorm:"size:255" json:"company"`
	Website        *string                         `gorm:"size:512" json:"website"`
	Location       *string                         `gorm:"size:255" json:"location"`
	Bio            *string                         `gorm:"type:text" json:"bio"`
	Status         *string                         `gorm:"size:255" json:"status"`
	GitHubUsername *string                         `gorm:"column:githubusername;size:100" json:"githubusername"`
	Skills         datatypes.JSONSlice[string]     `json:"skills"`
	Social         Social                          `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     datatypes.JSONSlice[Experience] `json:"experience"`
	Education      datatypes.JSONSlice[Education]  `json:"education"`
	CreatedAt      time.Time                       `json:"date"`
	UpdatedAt      time.Time                       `json:"updated_at"`
}

type Social struct {
	YouTube   *string `gorm:"size:512" json:"youtube"`
	Twitter   *string `gorm:"size:512" json:"twitter"`
	Facebook  *string `gorm:"size:512" json:"facebook"`
	LinkedIn  *string `gorm:"size:512" json:"linkedin"`
	Instagram *string `gorm:"size:512" json:"instagram"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    *string    `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description *string    `json:"description"`
}

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  *string    `json:"description"`
}

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
