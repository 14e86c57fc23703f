// models/models.go
package models

import "time"

// Role is a user's function inside the company.
type Role string

const (
	RoleDirector          Role = "Director"
	RoleSalesRetail       Role = "SalesRetail"
	RoleSalesCorporate    Role = "SalesCorporate"
	RoleSalesManager      Role = "SalesManager"
	RoleTrainingManager   Role = "TrainingManager"
	RoleOperationsManager Role = "OperationsManager"
	RoleTrainer           Role = "Trainer"
	RoleFinance           Role = "Finance"
	RoleHR                Role = "HR"
)

// LeadSource indicates where a lead came from.
type LeadSource string

const (
	SourceLinkedIn LeadSource = "LinkedIn"
	SourceEmail    LeadSource = "Email"
	SourceReferral LeadSource = "Referral"
	SourceCall     LeadSource = "Call"
)

// ClientType splits the pipeline between retail and corporate business.
type ClientType string

const (
	TypeRetail    ClientType = "Retail"
	TypeCorporate ClientType = "Corporate"
)

// LeadStatus is the lead funnel position.
type LeadStatus string

const (
	LeadNew               LeadStatus = "New"
	LeadContacted         LeadStatus = "Contacted"
	LeadInterested        LeadStatus = "Interested"
	LeadFollowUpScheduled LeadStatus = "FollowUpScheduled"
	LeadConverted         LeadStatus = "Converted"
	LeadNotInterested     LeadStatus = "NotInterested"
)

// DealStage is the backbone lifecycle of a sales opportunity.
type DealStage string

const (
	StageQualification     DealStage = "Qualification"
	StageProposalSent      DealStage = "ProposalSent"
	StageProposalAccepted  DealStage = "ProposalAccepted"
	StageInvoiceSent       DealStage = "InvoiceSent"
	StagePaymentConfirmed  DealStage = "PaymentConfirmed"
	StageTrainingScheduled DealStage = "TrainingScheduled"
	StageTrainingCompleted DealStage = "TrainingCompleted"
	StageClosedWon         DealStage = "ClosedWon"
	StageClosedLost        DealStage = "ClosedLost"
)

// ProposalStatus progresses Sent -> Accepted/Rejected only.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "Draft"
	ProposalSent     ProposalStatus = "Sent"
	ProposalAccepted ProposalStatus = "Accepted"
	ProposalRejected ProposalStatus = "Rejected"
)

// InvoiceStatus flips to Paid exactly once.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "Pending"
	InvoicePaid    InvoiceStatus = "Paid"
)

// ClassStatus is the delivery state of a scheduled training.
type ClassStatus string

const (
	ClassPlanned     ClassStatus = "Planned"
	ClassConfirmed   ClassStatus = "Confirmed"
	ClassOngoing     ClassStatus = "Ongoing"
	ClassCompleted   ClassStatus = "Completed"
	ClassRescheduled ClassStatus = "Rescheduled"
)

// Availability is the trainer's coarse availability flag.
type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBusy      Availability = "Busy"
	AvailabilityOnLeave   Availability = "OnLeave"
)

// Classrooms is the fixed set of rooms trainings can be booked into.
var Classrooms = []string{"Room A", "Room B", "Room C", "Lab 1", "Lab 2"}

// User is a staff member of the training company.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
	Avatar string `json:"avatar,omitempty"`

	// Hash bcrypt; never serialized to clients, but part of the persisted blob.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Lead is a prospective customer captured before any commercial commitment.
type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     LeadSource `json:"source"`
	Type       ClientType `json:"type"`
	Company    string     `json:"company,omitempty"`
	Status     LeadStatus `json:"status"`
	AssignedTo string     `json:"assignedTo"`
	CreatedAt  time.Time  `json:"createdAt"`

	// Append-only trail of timestamped entries. Only grows.
	History []string `json:"history"`
}

// Deal is a tracked sales opportunity progressing through stages.
type Deal struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ClientID string `json:"clientId"` // originating lead

	// Snapshot of the lead's name at conversion time. Not re-synced if the
	// lead is renamed later.
	ClientName string `json:"clientName"`

	Type          ClientType `json:"type"`
	Value         float64    `json:"value"`
	Stage         DealStage  `json:"stage"`
	AssignedTo    string     `json:"assignedTo"`
	ExpectedClose time.Time  `json:"expectedClose"`
	IsPaid        bool       `json:"isPaid"`
	ProposalID    string     `json:"proposalId,omitempty"`
	InvoiceID     string     `json:"invoiceId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Course is one line item of a proposal.
type Course struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration"`
}

// Proposal is an itemized course/price offer sent for a deal.
type Proposal struct {
	ID     string `json:"id"`
	DealID string `json:"dealId"`

	// Snapshot at creation time, same convention as Deal.ClientName.
	ClientName string `json:"clientName"`

	Courses []Course `json:"courses"`

	// Sum of course prices computed at creation. Immutable afterwards.
	TotalValue float64 `json:"totalValue"`

	Status    ProposalStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Invoice is a billing record generated once a proposal is accepted.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	DealID        string        `json:"dealId"`
	Amount        float64       `json:"amount"`
	DueDate       time.Time     `json:"dueDate"`
	Status        InvoiceStatus `json:"status"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
}

// TrainingClass is a scheduled delivery of a course over a date range.
// It may only exist for a deal whose payment was confirmed.
type TrainingClass struct {
	ID         string      `json:"id"`
	DealID     string      `json:"dealId"`
	CourseName string      `json:"courseName"`
	Duration   string      `json:"duration"`
	Hours      float64     `json:"hours"`
	Classroom  string      `json:"classroom"`
	TrainerID  string      `json:"trainerId"`
	Status     ClassStatus `json:"status"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
}

// Learner is an individual enrolled in a training class.
type Learner struct {
	ID            string     `json:"id"`
	TrainingID    string     `json:"trainingId"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Completed     bool       `json:"completed"`
	CertificateID string     `json:"certificateId,omitempty"`
	IssuedAt      *time.Time `json:"issuedAt,omitempty"`
}

// AvailabilitySlot declares a weekly window a trainer teaches in.
type AvailabilitySlot struct {
	Day       time.Weekday `json:"day"`
	StartTime string       `json:"startTime"` // "09:00"
	EndTime   string       `json:"endTime"`   // "18:00"
}

// TrainerProfile carries the extended attributes of a Trainer user.
// At most one profile per user.
type TrainerProfile struct {
	UserID       string             `json:"userId"`
	Skills       []string           `json:"skills"` // "name:level" tags
	Availability Availability       `json:"availability"`
	Bio          string             `json:"bio"`
	Courses      []string           `json:"courses"`
	Slots        []AvailabilitySlot `json:"availabilitySlots"`

	// Append-only trail of timestamped actions. Only grows.
	ActivityLog []string `json:"activityLog"`
}
