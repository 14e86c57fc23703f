package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/traindesk/api-crm/internal/models"
)

// Engine is the sole mutator of business state. Every operation validates
// its preconditions against the current snapshot, builds the next snapshot
// and commits it through the store in one step. All failures are typed
// return values; nothing is mutated on an error path.
type Engine struct {
	store *Store
	ids   IDGenerator
	now   func() time.Time
}

// NewEngine wires the engine to its store with production defaults.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store, ids: UUIDGenerator{}, now: time.Now}
}

// WithIDGenerator overrides id generation, for deterministic tests.
func (e *Engine) WithIDGenerator(g IDGenerator) *Engine {
	e.ids = g
	return e
}

// WithClock overrides the time source, for deterministic tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// View exposes the read-only snapshot. Callers compute their own filters
// and aggregates; there is no precomputed query layer.
func (e *Engine) View() models.State { return e.store.View() }

// invoiceDueDays is how long a client has to pay a fresh invoice.
const invoiceDueDays = 14

// LeadInput carries the caller-supplied fields of a new lead.
type LeadInput struct {
	Name       string
	Email      string
	Phone      string
	Source     models.LeadSource
	Type       models.ClientType
	Company    string
	AssignedTo string
}

// AddLead registers a new lead with a fresh id and an opening history line.
func (e *Engine) AddLead(in LeadInput) (models.Lead, error) {
	var out models.Lead
	err := e.store.Update(func(s models.State) (models.State, error) {
		now := e.now()
		lead := models.Lead{
			ID:         e.ids.NewID(),
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			Source:     in.Source,
			Type:       in.Type,
			Company:    in.Company,
			Status:     models.LeadNew,
			AssignedTo: in.AssignedTo,
			CreatedAt:  now,
			History:    []string{historyLine("Lead created", now)},
		}
		s.Leads = append(s.Leads, lead)
		out = lead
		return s, nil
	})
	return out, err
}

// UpdateLeadStatus moves a lead through the funnel and records the change.
// Converted is reserved for CreateDealFromLead.
func (e *Engine) UpdateLeadStatus(leadID string, status models.LeadStatus) (models.Lead, error) {
	var out models.Lead
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Leads {
			if s.Leads[i].ID != leadID {
				continue
			}
			if s.Leads[i].Status == models.LeadConverted {
				return s, ErrAlreadyConverted
			}
			if status == models.LeadConverted {
				return s, ErrInvalidTransition
			}
			s.Leads[i].Status = status
			appendLeadHistory(&s.Leads[i], fmt.Sprintf("Status changed to %s", status), e.now())
			out = s.Leads[i]
			return s, nil
		}
		return s, fmt.Errorf("lead %s: %w", leadID, ErrNotFound)
	})
	return out, err
}

// CreateDealFromLead converts a lead into a deal. The conversion is one-way:
// the lead becomes Converted and can never yield a second deal.
func (e *Engine) CreateDealFromLead(leadID string, value float64, expectedClose time.Time) (models.Deal, error) {
	var out models.Deal
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Leads {
			if s.Leads[i].ID != leadID {
				continue
			}
			lead := &s.Leads[i]
			if lead.Status == models.LeadConverted {
				return s, ErrAlreadyConverted
			}
			now := e.now()
			deal := models.Deal{
				ID:            e.ids.NewID(),
				Title:         dealTitle(*lead),
				ClientID:      lead.ID,
				ClientName:    lead.Name,
				Type:          lead.Type,
				Value:         value,
				Stage:         models.StageQualification,
				AssignedTo:    lead.AssignedTo,
				ExpectedClose: expectedClose,
				IsPaid:        false,
				CreatedAt:     now,
			}
			lead.Status = models.LeadConverted
			appendLeadHistory(lead, fmt.Sprintf("Converted to deal %s", deal.ID), now)
			s.Deals = append(s.Deals, deal)
			out = deal
			return s, nil
		}
		return s, fmt.Errorf("lead %s: %w", leadID, ErrNotFound)
	})
	return out, err
}

func dealTitle(lead models.Lead) string {
	if strings.TrimSpace(lead.Company) != "" {
		return fmt.Sprintf("%s - %s", lead.Company, lead.Name)
	}
	return lead.Name
}

// stagesOwnedByOperations are reached only through their dedicated
// operations, never through a direct stage update.
var stagesOwnedByOperations = map[models.DealStage]bool{
	models.StageProposalSent:      true,
	models.StageProposalAccepted:  true,
	models.StageInvoiceSent:       true,
	models.StagePaymentConfirmed:  true,
	models.StageTrainingScheduled: true,
}

// UpdateDealStage moves a deal along the stage graph. Illegal jumps and
// stages owned by side-effectful operations are rejected.
func (e *Engine) UpdateDealStage(dealID string, stage models.DealStage) (models.Deal, error) {
	var out models.Deal
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Deals {
			if s.Deals[i].ID != dealID {
				continue
			}
			if stagesOwnedByOperations[stage] || !CanMoveStage(s.Deals[i].Stage, stage) {
				return s, fmt.Errorf("%s -> %s: %w", s.Deals[i].Stage, stage, ErrInvalidTransition)
			}
			s.Deals[i].Stage = stage
			out = s.Deals[i]
			return s, nil
		}
		return s, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	})
	return out, err
}

// CreateProposal attaches an itemized offer to a deal and marks the deal
// ProposalSent. TotalValue is fixed at creation: later course edits
// elsewhere never change it.
func (e *Engine) CreateProposal(dealID string, courses []models.Course) (models.Proposal, error) {
	var out models.Proposal
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Deals {
			if s.Deals[i].ID != dealID {
				continue
			}
			deal := &s.Deals[i]
			if deal.Stage != models.StageProposalSent {
				if !CanMoveStage(deal.Stage, models.StageProposalSent) {
					return s, fmt.Errorf("%s -> %s: %w", deal.Stage, models.StageProposalSent, ErrInvalidTransition)
				}
				deal.Stage = models.StageProposalSent
			}
			total := 0.0
			for _, c := range courses {
				total += c.Price
			}
			p := models.Proposal{
				ID:         e.ids.NewID(),
				DealID:     deal.ID,
				ClientName: deal.ClientName,
				Courses:    append([]models.Course(nil), courses...),
				TotalValue: total,
				Status:     models.ProposalSent,
				CreatedAt:  e.now(),
			}
			deal.ProposalID = p.ID
			s.Proposals = append(s.Proposals, p)
			out = p
			return s, nil
		}
		return s, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	})
	return out, err
}

// AcceptProposal marks a sent proposal Accepted and, in the same commit,
// raises the invoice and walks the deal through ProposalAccepted to
// InvoiceSent. The intermediate stage write happens in order on the
// candidate snapshot.
func (e *Engine) AcceptProposal(proposalID string) (models.Proposal, models.Invoice, error) {
	var outP models.Proposal
	var outI models.Invoice
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Proposals {
			if s.Proposals[i].ID != proposalID {
				continue
			}
			p := &s.Proposals[i]
			switch p.Status {
			case models.ProposalSent:
			case models.ProposalAccepted, models.ProposalRejected:
				return s, ErrProposalDecided
			default:
				return s, fmt.Errorf("proposal is %s: %w", p.Status, ErrInvalidTransition)
			}
			p.Status = models.ProposalAccepted

			now := e.now()
			inv := models.Invoice{
				ID:            e.ids.NewID(),
				InvoiceNumber: fmt.Sprintf("INV-%d-%04d", now.Year(), len(s.Invoices)+1),
				DealID:        p.DealID,
				Amount:        p.TotalValue,
				DueDate:       now.AddDate(0, 0, invoiceDueDays),
				Status:        models.InvoicePending,
			}
			s.Invoices = append(s.Invoices, inv)

			for j := range s.Deals {
				if s.Deals[j].ID == p.DealID {
					s.Deals[j].Stage = models.StageProposalAccepted
					s.Deals[j].Stage = models.StageInvoiceSent
					s.Deals[j].InvoiceID = inv.ID
					break
				}
			}
			outP = *p
			outI = inv
			return s, nil
		}
		return s, fmt.Errorf("proposal %s: %w", proposalID, ErrNotFound)
	})
	return outP, outI, err
}

// RejectProposal marks a sent proposal Rejected. The deal stays where it
// is; a new proposal can still be created for it.
func (e *Engine) RejectProposal(proposalID string) (models.Proposal, error) {
	var out models.Proposal
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Proposals {
			if s.Proposals[i].ID != proposalID {
				continue
			}
			p := &s.Proposals[i]
			if p.Status != models.ProposalSent {
				return s, ErrProposalDecided
			}
			p.Status = models.ProposalRejected
			out = *p
			return s, nil
		}
		return s, fmt.Errorf("proposal %s: %w", proposalID, ErrNotFound)
	})
	return out, err
}

// ConfirmPayment settles an invoice exactly once and drives the owning
// deal: IsPaid flips true and the stage lands on PaymentConfirmed.
func (e *Engine) ConfirmPayment(invoiceID, method string) (models.Invoice, error) {
	var out models.Invoice
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Invoices {
			if s.Invoices[i].ID != invoiceID {
				continue
			}
			inv := &s.Invoices[i]
			if inv.Status == models.InvoicePaid {
				return s, ErrAlreadyPaid
			}
			now := e.now()
			inv.Status = models.InvoicePaid
			inv.PaymentDate = &now
			inv.PaymentMethod = method

			for j := range s.Deals {
				if s.Deals[j].ID == inv.DealID {
					s.Deals[j].IsPaid = true
					s.Deals[j].Stage = models.StagePaymentConfirmed
					break
				}
			}
			out = *inv
			return s, nil
		}
		return s, fmt.Errorf("invoice %s: %w", invoiceID, ErrNotFound)
	})
	return out, err
}

// ScheduleTrainingInput carries the fields of a requested class.
type ScheduleTrainingInput struct {
	DealID     string
	CourseName string
	Duration   string
	Hours      float64
	Classroom  string
	TrainerID  string
	StartDate  time.Time
	EndDate    time.Time
}

// AvailabilityWarning is returned alongside a successful schedule when the
// trainer's declared weekly slots do not cover the requested days. It never
// blocks the operation; double-booking does.
const AvailabilityWarning = "trainer has no availability slot covering the requested days"

// ScheduleTraining creates a class for a paid deal. Hard guards: the deal
// must exist and be paid, and the trainer must not be booked for an
// overlapping range (inclusive boundaries). The availability check is soft.
func (e *Engine) ScheduleTraining(in ScheduleTrainingInput) (models.TrainingClass, string, error) {
	var out models.TrainingClass
	var warning string
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Deals {
			if s.Deals[i].ID != in.DealID {
				continue
			}
			deal := &s.Deals[i]
			if !deal.IsPaid {
				return s, ErrPaymentNotConfirmed
			}
			if IsTrainerBusy(in.TrainerID, in.StartDate, in.EndDate, s.TrainingClasses, "") {
				return s, ErrSchedulingConflict
			}
			if profile, ok := s.FindTrainerProfile(in.TrainerID); ok {
				if !MatchesAvailability(profile, in.StartDate, in.EndDate) {
					warning = AvailabilityWarning
				}
			}
			class := models.TrainingClass{
				ID:         e.ids.NewID(),
				DealID:     deal.ID,
				CourseName: in.CourseName,
				Duration:   in.Duration,
				Hours:      in.Hours,
				Classroom:  in.Classroom,
				TrainerID:  in.TrainerID,
				Status:     models.ClassPlanned,
				StartDate:  in.StartDate,
				EndDate:    in.EndDate,
			}
			s.TrainingClasses = append(s.TrainingClasses, class)
			deal.Stage = models.StageTrainingScheduled
			out = class
			return s, nil
		}
		return s, fmt.Errorf("deal %s: %w", in.DealID, ErrNotFound)
	})
	return out, warning, err
}

// RescheduleTraining moves an existing class to a new date range. The
// conflict check skips the class itself so it can shift within its own
// old window.
func (e *Engine) RescheduleTraining(classID string, start, end time.Time) (models.TrainingClass, string, error) {
	var out models.TrainingClass
	var warning string
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.TrainingClasses {
			if s.TrainingClasses[i].ID != classID {
				continue
			}
			c := &s.TrainingClasses[i]
			if IsTrainerBusy(c.TrainerID, start, end, s.TrainingClasses, c.ID) {
				return s, ErrSchedulingConflict
			}
			if profile, ok := s.FindTrainerProfile(c.TrainerID); ok {
				if !MatchesAvailability(profile, start, end) {
					warning = AvailabilityWarning
				}
			}
			c.StartDate = start
			c.EndDate = end
			c.Status = models.ClassRescheduled
			out = *c
			return s, nil
		}
		return s, fmt.Errorf("training class %s: %w", classID, ErrNotFound)
	})
	return out, warning, err
}

// ConfirmTrainingClass confirms a planned or rescheduled class.
func (e *Engine) ConfirmTrainingClass(classID string) (models.TrainingClass, error) {
	return e.setClassStatus(classID, models.ClassConfirmed,
		models.ClassPlanned, models.ClassRescheduled)
}

// StartTrainingClass flips a class to Ongoing. This replaces the ad hoc
// snapshot write the trainer dashboard used to perform.
func (e *Engine) StartTrainingClass(classID string) (models.TrainingClass, error) {
	return e.setClassStatus(classID, models.ClassOngoing,
		models.ClassPlanned, models.ClassConfirmed, models.ClassRescheduled)
}

// CompleteTrainingClass closes out a running class and moves the owning
// deal to TrainingCompleted.
func (e *Engine) CompleteTrainingClass(classID string) (models.TrainingClass, error) {
	var out models.TrainingClass
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.TrainingClasses {
			if s.TrainingClasses[i].ID != classID {
				continue
			}
			c := &s.TrainingClasses[i]
			if c.Status != models.ClassOngoing {
				return s, fmt.Errorf("class is %s: %w", c.Status, ErrInvalidTransition)
			}
			c.Status = models.ClassCompleted
			for j := range s.Deals {
				if s.Deals[j].ID == c.DealID && s.Deals[j].Stage == models.StageTrainingScheduled {
					s.Deals[j].Stage = models.StageTrainingCompleted
					break
				}
			}
			out = *c
			return s, nil
		}
		return s, fmt.Errorf("training class %s: %w", classID, ErrNotFound)
	})
	return out, err
}

func (e *Engine) setClassStatus(classID string, to models.ClassStatus, from ...models.ClassStatus) (models.TrainingClass, error) {
	var out models.TrainingClass
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.TrainingClasses {
			if s.TrainingClasses[i].ID != classID {
				continue
			}
			c := &s.TrainingClasses[i]
			legal := false
			for _, f := range from {
				if c.Status == f {
					legal = true
					break
				}
			}
			if !legal {
				return s, fmt.Errorf("class is %s: %w", c.Status, ErrInvalidTransition)
			}
			c.Status = to
			out = *c
			return s, nil
		}
		return s, fmt.Errorf("training class %s: %w", classID, ErrNotFound)
	})
	return out, err
}

// AddLearner enrolls a person into a training class.
func (e *Engine) AddLearner(trainingID, name, email string) (models.Learner, error) {
	var out models.Learner
	err := e.store.Update(func(s models.State) (models.State, error) {
		if _, ok := s.FindTrainingClass(trainingID); !ok {
			return s, fmt.Errorf("training class %s: %w", trainingID, ErrNotFound)
		}
		l := models.Learner{
			ID:         e.ids.NewID(),
			TrainingID: trainingID,
			Name:       name,
			Email:      email,
		}
		s.Learners = append(s.Learners, l)
		out = l
		return s, nil
	})
	return out, err
}

// IssueCertificate marks a learner completed and assigns the certificate
// id. Re-issuance is rejected: the first certificate is permanent.
func (e *Engine) IssueCertificate(learnerID string) (models.Learner, error) {
	var out models.Learner
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Learners {
			if s.Learners[i].ID != learnerID {
				continue
			}
			l := &s.Learners[i]
			if l.CertificateID != "" {
				return s, ErrAlreadyCertified
			}
			now := e.now()
			l.Completed = true
			l.CertificateID = "CERT-" + e.ids.NewID()
			l.IssuedAt = &now
			out = *l
			return s, nil
		}
		return s, fmt.Errorf("learner %s: %w", learnerID, ErrNotFound)
	})
	return out, err
}

// TrainerProfileInput carries the editable fields of a trainer profile.
type TrainerProfileInput struct {
	UserID       string
	Skills       []string
	Availability models.Availability
	Bio          string
	Courses      []string
	Slots        []models.AvailabilitySlot
}

// UpdateTrainerProfile upserts the profile for a trainer user and appends
// one activity entry regardless of which fields changed.
func (e *Engine) UpdateTrainerProfile(in TrainerProfileInput, updatedBy string) (models.TrainerProfile, error) {
	var out models.TrainerProfile
	err := e.store.Update(func(s models.State) (models.State, error) {
		if _, ok := s.FindUser(in.UserID); !ok {
			return s, fmt.Errorf("user %s: %w", in.UserID, ErrNotFound)
		}
		for i := range s.TrainerProfiles {
			if s.TrainerProfiles[i].UserID != in.UserID {
				continue
			}
			p := &s.TrainerProfiles[i]
			p.Skills = append([]string(nil), in.Skills...)
			p.Availability = in.Availability
			p.Bio = in.Bio
			p.Courses = append([]string(nil), in.Courses...)
			p.Slots = append([]models.AvailabilitySlot(nil), in.Slots...)
			appendTrainerActivity(p, fmt.Sprintf("Profile updated by %s", updatedBy), e.now())
			out = *p
			return s, nil
		}
		p := models.TrainerProfile{
			UserID:       in.UserID,
			Skills:       append([]string(nil), in.Skills...),
			Availability: in.Availability,
			Bio:          in.Bio,
			Courses:      append([]string(nil), in.Courses...),
			Slots:        append([]models.AvailabilitySlot(nil), in.Slots...),
			ActivityLog:  []string{},
		}
		appendTrainerActivity(&p, fmt.Sprintf("Profile created by %s", updatedBy), e.now())
		s.TrainerProfiles = append(s.TrainerProfiles, p)
		out = p
		return s, nil
	})
	return out, err
}

// UserInput carries the fields of a new staff account.
type UserInput struct {
	Name         string
	Email        string
	Role         models.Role
	PasswordHash string
}

// AddTrainerUser onboards a trainer: a User with the Trainer role plus an
// empty profile, created together.
func (e *Engine) AddTrainerUser(in UserInput, profile TrainerProfileInput) (models.User, error) {
	var out models.User
	err := e.store.Update(func(s models.State) (models.State, error) {
		u := models.User{
			ID:           e.ids.NewID(),
			Name:         in.Name,
			Email:        in.Email,
			Role:         models.RoleTrainer,
			Active:       true,
			PasswordHash: in.PasswordHash,
		}
		p := models.TrainerProfile{
			UserID:       u.ID,
			Skills:       append([]string(nil), profile.Skills...),
			Availability: profile.Availability,
			Bio:          profile.Bio,
			Courses:      append([]string(nil), profile.Courses...),
			Slots:        append([]models.AvailabilitySlot(nil), profile.Slots...),
			ActivityLog:  []string{},
		}
		if p.Availability == "" {
			p.Availability = models.AvailabilityAvailable
		}
		appendTrainerActivity(&p, "Trainer onboarded", e.now())
		s.Users = append(s.Users, u)
		s.TrainerProfiles = append(s.TrainerProfiles, p)
		out = u
		return s, nil
	})
	return out, err
}

// AddSalesUser onboards a sales or back-office account with the given role.
func (e *Engine) AddSalesUser(in UserInput) (models.User, error) {
	var out models.User
	err := e.store.Update(func(s models.State) (models.State, error) {
		u := models.User{
			ID:           e.ids.NewID(),
			Name:         in.Name,
			Email:        in.Email,
			Role:         in.Role,
			Active:       true,
			PasswordHash: in.PasswordHash,
		}
		s.Users = append(s.Users, u)
		out = u
		return s, nil
	})
	return out, err
}

// UpdateUserAvatar stores a new avatar reference for a user.
func (e *Engine) UpdateUserAvatar(userID, avatar string) (models.User, error) {
	var out models.User
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Users {
			if s.Users[i].ID == userID {
				s.Users[i].Avatar = avatar
				out = s.Users[i]
				return s, nil
			}
		}
		return s, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	})
	return out, err
}

// DeactivateUser clears the active flag. Users are never hard-deleted.
func (e *Engine) DeactivateUser(userID string) (models.User, error) {
	var out models.User
	err := e.store.Update(func(s models.State) (models.State, error) {
		for i := range s.Users {
			if s.Users[i].ID == userID {
				s.Users[i].Active = false
				out = s.Users[i]
				return s, nil
			}
		}
		return s, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	})
	return out, err
}
