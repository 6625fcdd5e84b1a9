package model

import "time"

// Plan codes a user can subscribe to.
const (
	PlanSmall  = "small"
	PlanMedium = "medium"
	PlanLarge  = "large"
)

// User is an operator account owning reservations.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:150;not null"`
	Email        string    `gorm:"index;size:254"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	PasswordHash string    `gorm:"size:255"` // empty for accounts created through Google sign-in
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	// Associations
	Profile UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserProfile holds the plan and usage counters of a user.
type UserProfile struct {
	UserID   int64  `gorm:"primaryKey"`
	Plan     string `gorm:"size:10"`
	Usage    int    `gorm:"not null"`
	Language string `gorm:"size:5"`
}

// Limit returns the number of active reservations the plan allows.
func (p UserProfile) Limit() int {
	return PlanLimit(p.Plan)
}

// PlanLimit maps a plan code to its active reservation limit; unknown plans allow none.
func PlanLimit(plan string) int {
	switch plan {
	case PlanSmall:
		return 50
	case PlanMedium:
		return 100
	case PlanLarge:
		return 500
	}
	return 0
}

// PlanName returns the display name of a plan.
func PlanName(plan string) string {
	switch plan {
	case PlanSmall:
		return "MAŁY PARKING"
	case PlanMedium:
		return "ŚREDNI PARKING"
	case PlanLarge:
		return "DUŻY PARKING"
	}
	return ""
}

// ValidPlan reports whether code is a known plan.
func ValidPlan(code string) bool {
	return PlanLimit(code) > 0
}
