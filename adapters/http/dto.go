package http

import (
	"encoding/json"
	"time"

	"github.com/scolardf/devconnector/internal/domain/profile"
)

// SkillList accepts either a comma separated string or a JSON array of strings.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = profile.SplitSkills(joined)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// UpsertProfileRequest lists every body key the profile endpoint reads.
// Social links arrive flat at the top level.
type UpsertProfileRequest struct {
	Status  string    `json:"status" binding:"required" msg:"Status is required"`
	Skills  SkillList `json:"skills" binding:"required" msg:"Skills are required"`
	Website string    `json:"website"`

	YouTube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`

	Company        *string `json:"company"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
}

type AddExperienceRequest struct {
	Title       string `json:"title" binding:"required" msg:"Title is required"`
	Company     string `json:"company" binding:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required" msg:"From Date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type AddEducationRequest struct {
	School       string `json:"school" binding:"required" msg:"School is required"`
	Degree       string `json:"degree" binding:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldOfStudy" binding:"required" msg:"Field of Study is required"`
	From         string `json:"from" binding:"required" msg:"From Date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type OwnerDTO struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type SocialDTO struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type ExperienceDTO struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type ProfileDTO struct {
	User           OwnerDTO        `json:"user"`
	Status         string          `json:"status"`
	Skills         []string        `json:"skills"`
	Website        string          `json:"website,omitempty"`
	Company        string          `json:"company,omitempty"`
	Location       string          `json:"location,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	GithubUsername string          `json:"githubusername,omitempty"`
	Social         SocialDTO       `json:"social"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Date           time.Time       `json:"date"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		User:           OwnerDTO{ID: p.UserID.String()},
		Status:         p.Status,
		Skills:         p.Skills,
		Website:        p.Website,
		Company:        p.Company,
		Location:       p.Location,
		Bio:            p.Bio,
		GithubUsername: p.GithubUsername,
		Social:         SocialDTO(p.Social),
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Date:           p.CreatedAt,
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	if p.User != nil {
		dto.User.Name = p.User.Name
		dto.User.Avatar = p.User.Avatar
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO{
			ID:          e.ID.String(),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From,
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		}
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO{
			ID:           e.ID.String(),
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From,
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		}
	}
	return dto
}

func ToProfileDTOs(profiles []*profile.Profile) []ProfileDTO {
	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = ToProfileDTO(p)
	}
	return dtos
}
