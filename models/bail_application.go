package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the review status of a bail application
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// BailType represents the kind of bail being sought
type BailType string

const (
	BailTypeRegular      BailType = "regular"
	BailTypeAnticipatory BailType = "anticipatory"
	BailTypeInterim      BailType = "interim"
)

// BailApplication is a full bail application as served by the application service
type BailApplication struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	ApplicationNumber string    `json:"application_number"`

	// Personal information
	ApplicantName     string  `json:"applicant_name"`
	FatherHusbandName string  `json:"father_husband_name"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	Address           string  `json:"address"`
	PhoneNumber       string  `json:"phone_number"`
	Email             *string `json:"email,omitempty"`

	// Case details
	FIRNumber       string    `json:"fir_number"`
	PoliceStation   string    `json:"police_station"`
	District        string    `json:"district"`
	State           string    `json:"state"`
	DateOfArrest    time.Time `json:"date_of_arrest"`
	SectionsApplied string    `json:"sections_applied"`
	CaseDescription string    `json:"case_description"`

	// Bail details
	BailType                 BailType `json:"bail_type"`
	PreviousBailApplications bool     `json:"previous_bail_applications"`
	PreviousBailDetails      *string  `json:"previous_bail_details,omitempty"`

	// Supporting information
	SuretyDetails     *string `json:"surety_details,omitempty"`
	MedicalCondition  *string `json:"medical_condition,omitempty"`
	FamilyDependents  *string `json:"family_dependents,omitempty"`
	EmploymentDetails *string `json:"employment_details,omitempty"`

	Status           ApplicationStatus `json:"status"`
	AssignedLawyerID *uuid.UUID        `json:"assigned_lawyer_id,omitempty"`
	JudgeID          *uuid.UUID        `json:"judge_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// CreateBailApplication is the payload for submitting a new application
type CreateBailApplication struct {
	ApplicantName     string  `json:"applicant_name"`
	FatherHusbandName string  `json:"father_husband_name"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	Address           string  `json:"address"`
	PhoneNumber       string  `json:"phone_number"`
	Email             *string `json:"email,omitempty"`

	FIRNumber       string    `json:"fir_number"`
	PoliceStation   string    `json:"police_station"`
	District        string    `json:"district"`
	State           string    `json:"state"`
	DateOfArrest    time.Time `json:"date_of_arrest"`
	SectionsApplied string    `json:"sections_applied"`
	CaseDescription string    `json:"case_description"`

	BailType                 BailType `json:"bail_type"`
	PreviousBailApplications bool     `json:"previous_bail_applications"`
	PreviousBailDetails      *string  `json:"previous_bail_details,omitempty"`

	SuretyDetails     *string `json:"surety_details,omitempty"`
	MedicalCondition  *string `json:"medical_condition,omitempty"`
	FamilyDependents  *string `json:"family_dependents,omitempty"`
	EmploymentDetails *string `json:"employment_details,omitempty"`
}

// BailApplicationResponse is returned by create and assign operations
type BailApplicationResponse struct {
	ID                uuid.UUID         `json:"id"`
	ApplicationNumber string            `json:"application_number"`
	Status            ApplicationStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}

// BailApplicationSummary is one row of an application listing
type BailApplicationSummary struct {
	ID                uuid.UUID         `json:"id"`
	ApplicationNumber string            `json:"application_number"`
	ApplicantName     string            `json:"applicant_name"`
	FIRNumber         string            `json:"fir_number"`
	Status            ApplicationStatus `json:"status"`
	BailType          BailType          `json:"bail_type"`
	CreatedAt         time.Time         `json:"created_at"`
}
