package models

import "time"

type Project struct {
	ID                   uint64     `gorm:"primarykey" json:"id"`
	StoreCode            string     `gorm:"type:varchar(100);not null" json:"store_code"`
	StoreName            string     `gorm:"type:varchar(200);not null" json:"store_name"`
	ProjectCode          string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"project_code"`
	Zone                 string     `gorm:"type:varchar(100)" json:"zone"`
	City                 string     `gorm:"type:varchar(100)" json:"city"`
	State                string     `gorm:"type:varchar(100)" json:"state"`
	SiteLatLong          string     `gorm:"type:text" json:"site_lat_long"`
	StoreType            string     `gorm:"type:varchar(100)" json:"store_type"`
	SiteType             string     `gorm:"type:varchar(100)" json:"site_type"`
	LLHODate             *time.Time `json:"ll_ho_date"`
	LaunchDate           *time.Time `json:"launch_date"`
	ProjectHandoverDate  *time.Time `json:"project_handover_date"`
	LOIReleaseDate       *time.Time `json:"loi_release_date"`
	TokenReleaseDate     *time.Time `json:"token_release_date"`
	ReceeDate            *time.Time `json:"recee_date"`
	ReceeStatus          string     `gorm:"type:varchar(100)" json:"recee_status"`
	LOISignedStatus      string     `gorm:"type:varchar(100)" json:"loi_signed_status"`
	Layout               string     `gorm:"type:varchar(100)" json:"layout"`
	ProjectStatus        string     `gorm:"type:varchar(100);default:'LL WIP'" json:"project_status"`
	PropertyAreaSqft     *float64   `json:"property_area_sqft"`
	ActualCarpetAreaSqft *float64   `json:"actual_carpet_area_sqft"`
	Criticality          string     `gorm:"type:varchar(10)" json:"criticality"`
	Address              string     `gorm:"type:text" json:"address"`
	TokenReleased        string     `gorm:"type:varchar(10)" json:"token_released"`
	PowerAvailabilityKVA string     `gorm:"type:varchar(50)" json:"power_availability_kva"`
	CreatedBy            *uint64    `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	Creator       *User             `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	AssignedUsers []ProjectUser     `gorm:"foreignKey:ProjectID" json:"assigned_users,omitempty"`
	Documents     []ProjectDocument `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
	Tasks         []Task            `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// DefaultProjectStatus is applied when a project is created without one.
const DefaultProjectStatus = "LL WIP"

// ProjectUser assigns a user to a project with a role scoped to that
// assignment, distinct from the user's global role.
type ProjectUser struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Role       string    `gorm:"type:varchar(100);default:'Member'" json:"role"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// DefaultAssignmentRole is used when an assignment carries no role label.
const DefaultAssignmentRole = "Member"

type ProjectDocument struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ProjectID    uint64    `gorm:"not null;index" json:"project_id"`
	DocumentName string    `gorm:"type:varchar(255);not null" json:"document_name"`
	FilePath     string    `gorm:"type:varchar(500)" json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`
}
