package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traindesk/api-crm/internal/models"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newTestEngine() *Engine {
	base := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	return NewEngine(NewStore(models.State{})).
		WithIDGenerator(&seqIDs{}).
		WithClock(func() time.Time { return base })
}

func addLead(t *testing.T, e *Engine) models.Lead {
	t.Helper()
	lead, err := e.AddLead(LeadInput{
		Name:       "Ana Souza",
		Email:      "ana@example.com",
		Phone:      "+55 11 99999-0000",
		Source:     models.SourceLinkedIn,
		Type:       models.TypeRetail,
		AssignedTo: "rep-1",
	})
	require.NoError(t, err)
	return lead
}

// paidDeal walks a fresh lead through the whole commercial pipeline up to
// a confirmed payment.
func paidDeal(t *testing.T, e *Engine) models.Deal {
	t.Helper()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)
	p, err := e.CreateProposal(deal.ID, []models.Course{{Name: "Course A", Price: 5000, Duration: "24h"}})
	require.NoError(t, err)
	_, inv, err := e.AcceptProposal(p.ID)
	require.NoError(t, err)
	_, err = e.ConfirmPayment(inv.ID, "wire")
	require.NoError(t, err)
	deal2, ok := e.View().FindDeal(deal.ID)
	require.True(t, ok)
	return deal2
}

func TestAddLead(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.LeadNew, lead.Status)
	require.Len(t, lead.History, 1)
	assert.Contains(t, lead.History[0], "Lead created")
}

func TestUpdateLeadStatus(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)

	updated, err := e.UpdateLeadStatus(lead.ID, models.LeadContacted)
	require.NoError(t, err)
	assert.Equal(t, models.LeadContacted, updated.Status)
	assert.Len(t, updated.History, 2)

	_, err = e.UpdateLeadStatus("missing", models.LeadContacted)
	assert.ErrorIs(t, err, ErrNotFound)

	// Converted is reserved for deal creation
	_, err = e.UpdateLeadStatus(lead.ID, models.LeadConverted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestScenarioA_ConvertLead(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)

	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, models.StageQualification, deal.Stage)
	assert.Equal(t, 5000.0, deal.Value)
	assert.Equal(t, lead.ID, deal.ClientID)
	assert.Equal(t, "Ana Souza", deal.ClientName)
	assert.Equal(t, "rep-1", deal.AssignedTo)
	assert.False(t, deal.IsPaid)

	state := e.View()
	got, ok := state.FindLead(lead.ID)
	require.True(t, ok)
	assert.Equal(t, models.LeadConverted, got.Status)
	assert.Len(t, state.Deals, 1)
}

func TestConversionIsOneWay(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)

	_, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)

	_, err = e.CreateDealFromLead(lead.ID, 9000, time.Time{})
	assert.ErrorIs(t, err, ErrAlreadyConverted)
	assert.Len(t, e.View().Deals, 1)

	// the converted lead cannot be moved back through the funnel
	_, err = e.UpdateLeadStatus(lead.ID, models.LeadInterested)
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestScenarioB_CreateProposal(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)

	p, err := e.CreateProposal(deal.ID, []models.Course{
		{Name: "Course A", Price: 3000, Duration: "24h"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p.TotalValue)
	assert.Equal(t, models.ProposalSent, p.Status)
	assert.Equal(t, "Ana Souza", p.ClientName)

	got, _ := e.View().FindDeal(deal.ID)
	assert.Equal(t, models.StageProposalSent, got.Stage)
	assert.Equal(t, p.ID, got.ProposalID)
}

func TestProposalTotalIsFixedAtCreation(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)

	p, err := e.CreateProposal(deal.ID, []models.Course{
		{Name: "Course A", Price: 3000, Duration: "24h"},
		{Name: "Course B", Price: 1500, Duration: "16h"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4500.0, p.TotalValue)

	// tampering with a returned view never reaches the stored proposal
	view := e.View()
	view.Proposals[0].Courses[0].Price = 1
	got, _ := e.View().FindProposal(p.ID)
	assert.Equal(t, 4500.0, got.TotalValue)
	assert.Equal(t, 3000.0, got.Courses[0].Price)
}

func TestScenarioC_AcceptProposal(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)
	p, err := e.CreateProposal(deal.ID, []models.Course{{Name: "Course A", Price: 3000, Duration: "24h"}})
	require.NoError(t, err)

	accepted, inv, err := e.AcceptProposal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalAccepted, accepted.Status)
	assert.Equal(t, 3000.0, inv.Amount)
	assert.Equal(t, models.InvoicePending, inv.Status)
	assert.Equal(t, "INV-2025-0001", inv.InvoiceNumber)
	assert.Equal(t, inv.DueDate, time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC))

	got, _ := e.View().FindDeal(deal.ID)
	assert.Equal(t, models.StageInvoiceSent, got.Stage)
	assert.Equal(t, inv.ID, got.InvoiceID)

	_, _, err = e.AcceptProposal(p.ID)
	assert.ErrorIs(t, err, ErrProposalDecided)
}

func TestRejectProposal(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)
	p, err := e.CreateProposal(deal.ID, []models.Course{{Name: "Course A", Price: 3000, Duration: "24h"}})
	require.NoError(t, err)

	rejected, err := e.RejectProposal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalRejected, rejected.Status)
	assert.Empty(t, e.View().Invoices)

	_, _, err = e.AcceptProposal(p.ID)
	assert.ErrorIs(t, err, ErrProposalDecided)
}

func TestScenarioD_ConfirmPayment(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)
	p, err := e.CreateProposal(deal.ID, []models.Course{{Name: "Course A", Price: 3000, Duration: "24h"}})
	require.NoError(t, err)
	_, inv, err := e.AcceptProposal(p.ID)
	require.NoError(t, err)

	paid, err := e.ConfirmPayment(inv.ID, "wire")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "wire", paid.PaymentMethod)

	got, _ := e.View().FindDeal(deal.ID)
	assert.True(t, got.IsPaid)
	assert.Equal(t, models.StagePaymentConfirmed, got.Stage)

	_, err = e.ConfirmPayment(inv.ID, "wire")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestInvoicePaymentDealConsistency(t *testing.T) {
	e := newTestEngine()
	paidDeal(t, e)
	addLead(t, e) // an unconverted lead on the side

	state := e.View()
	for _, inv := range state.Invoices {
		d, ok := state.FindDeal(inv.DealID)
		require.True(t, ok)
		if inv.Status == models.InvoicePaid {
			assert.True(t, d.IsPaid)
			assert.Equal(t, models.StagePaymentConfirmed, d.Stage)
		} else {
			assert.False(t, d.IsPaid)
		}
	}
}

func TestPaymentGate(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)

	_, _, err = e.ScheduleTraining(ScheduleTrainingInput{
		DealID:    deal.ID,
		TrainerID: "T1",
		StartDate: day(10),
		EndDate:   day(12),
	})
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
	assert.Empty(t, e.View().TrainingClasses)

	_, _, err = e.ScheduleTraining(ScheduleTrainingInput{DealID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenarioE_NoDoubleBooking(t *testing.T) {
	e := newTestEngine()
	d1 := paidDeal(t, e)
	d2 := paidDeal(t, e)

	first, warning, err := e.ScheduleTraining(ScheduleTrainingInput{
		DealID:     d1.ID,
		CourseName: "Go Fundamentals",
		Classroom:  "Room A",
		TrainerID:  "T1",
		StartDate:  day(10),
		EndDate:    day(12),
	})
	require.NoError(t, err)
	assert.Empty(t, warning) // no profile on file, nothing to warn about
	assert.Equal(t, models.ClassPlanned, first.Status)

	got, _ := e.View().FindDeal(d1.ID)
	assert.Equal(t, models.StageTrainingScheduled, got.Stage)

	_, _, err = e.ScheduleTraining(ScheduleTrainingInput{
		DealID:     d2.ID,
		CourseName: "Go Fundamentals",
		Classroom:  "Room B",
		TrainerID:  "T1",
		StartDate:  day(11),
		EndDate:    day(13),
	})
	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Len(t, e.View().TrainingClasses, 1)

	// the untouched second deal keeps its stage
	got2, _ := e.View().FindDeal(d2.ID)
	assert.Equal(t, models.StagePaymentConfirmed, got2.Stage)

	// another trainer is free for the same window
	_, _, err = e.ScheduleTraining(ScheduleTrainingInput{
		DealID:     d2.ID,
		CourseName: "Go Fundamentals",
		Classroom:  "Room B",
		TrainerID:  "T2",
		StartDate:  day(11),
		EndDate:    day(13),
	})
	require.NoError(t, err)
}

func TestScheduleTrainingAvailabilityWarning(t *testing.T) {
	e := newTestEngine()
	trainerUser, err := e.AddTrainerUser(UserInput{Name: "Rui", Email: "rui@example.com"}, TrainerProfileInput{})
	require.NoError(t, err)
	_, err = e.UpdateTrainerProfile(TrainerProfileInput{
		UserID:       trainerUser.ID,
		Availability: models.AvailabilityAvailable,
		Slots: []models.AvailabilitySlot{
			{Day: time.Monday, StartTime: "09:00", EndTime: "18:00"},
			{Day: time.Tuesday, StartTime: "09:00", EndTime: "18:00"},
			{Day: time.Wednesday, StartTime: "09:00", EndTime: "18:00"},
			{Day: time.Thursday, StartTime: "09:00", EndTime: "18:00"},
			{Day: time.Friday, StartTime: "09:00", EndTime: "18:00"},
		},
	}, "mgr-1")
	require.NoError(t, err)

	d := paidDeal(t, e)
	// 2025-01-10 Friday .. 2025-01-12 Sunday: outside the weekday slots
	class, warning, err := e.ScheduleTraining(ScheduleTrainingInput{
		DealID:     d.ID,
		TrainerID:  trainerUser.ID,
		CourseName: "Go Fundamentals",
		StartDate:  day(10),
		EndDate:    day(12),
	})
	require.NoError(t, err)
	assert.Equal(t, AvailabilityWarning, warning)
	assert.NotEmpty(t, class.ID)

	// warnings never block: the class exists despite the mismatch
	assert.Len(t, e.View().TrainingClasses, 1)

	// a weekday-only booking for the same trainer raises no warning
	d2 := paidDeal(t, e)
	_, warning, err = e.ScheduleTraining(ScheduleTrainingInput{
		DealID:     d2.ID,
		TrainerID:  trainerUser.ID,
		CourseName: "Go Fundamentals",
		StartDate:  day(14), // Tuesday
		EndDate:    day(15), // Wednesday
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
}

func TestRescheduleTraining(t *testing.T) {
	e := newTestEngine()
	d := paidDeal(t, e)
	class, _, err := e.ScheduleTraining(ScheduleTrainingInput{
		DealID: d.ID, TrainerID: "T1", CourseName: "Go", StartDate: day(10), EndDate: day(12),
	})
	require.NoError(t, err)

	// shifting within its own old window is fine
	moved, _, err := e.RescheduleTraining(class.ID, day(11), day(13))
	require.NoError(t, err)
	assert.Equal(t, models.ClassRescheduled, moved.Status)
	assert.Equal(t, day(11), moved.StartDate)

	// but another class for the same trainer blocks the move
	d2 := paidDeal(t, e)
	_, _, err = e.ScheduleTraining(ScheduleTrainingInput{
		DealID: d2.ID, TrainerID: "T1", CourseName: "Go", StartDate: day(20), EndDate: day(22),
	})
	require.NoError(t, err)
	_, _, err = e.RescheduleTraining(class.ID, day(19), day(21))
	assert.ErrorIs(t, err, ErrSchedulingConflict)
}

func TestTrainingClassLifecycle(t *testing.T) {
	e := newTestEngine()
	d := paidDeal(t, e)
	class, _, err := e.ScheduleTraining(ScheduleTrainingInput{
		DealID: d.ID, TrainerID: "T1", CourseName: "Go", StartDate: day(10), EndDate: day(12),
	})
	require.NoError(t, err)

	confirmed, err := e.ConfirmTrainingClass(class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassConfirmed, confirmed.Status)

	started, err := e.StartTrainingClass(class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassOngoing, started.Status)

	// completing twice is rejected
	completed, err := e.CompleteTrainingClass(class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassCompleted, completed.Status)
	_, err = e.CompleteTrainingClass(class.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, _ := e.View().FindDeal(d.ID)
	assert.Equal(t, models.StageTrainingCompleted, got.Stage)

	// a completed class cannot be started again
	_, err = e.StartTrainingClass(class.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestScenarioF_IssueCertificate(t *testing.T) {
	e := newTestEngine()
	d := paidDeal(t, e)
	class, _, err := e.ScheduleTraining(ScheduleTrainingInput{
		DealID: d.ID, TrainerID: "T1", CourseName: "Go", StartDate: day(10), EndDate: day(12),
	})
	require.NoError(t, err)

	learner, err := e.AddLearner(class.ID, "Bia", "bia@example.com")
	require.NoError(t, err)
	assert.False(t, learner.Completed)

	issued, err := e.IssueCertificate(learner.ID)
	require.NoError(t, err)
	assert.True(t, issued.Completed)
	assert.NotEmpty(t, issued.CertificateID)
	require.NotNil(t, issued.IssuedAt)

	// re-issuance is rejected and the original certificate stands
	_, err = e.IssueCertificate(learner.ID)
	assert.ErrorIs(t, err, ErrAlreadyCertified)
	got, _ := e.View().FindLearner(learner.ID)
	assert.Equal(t, issued.CertificateID, got.CertificateID)

	_, err = e.IssueCertificate("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.AddLearner("missing", "x", "x@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDealStage(t *testing.T) {
	e := newTestEngine()
	lead := addLead(t, e)
	deal, err := e.CreateDealFromLead(lead.ID, 5000, time.Time{})
	require.NoError(t, err)

	// stages owned by dedicated operations are rejected outright
	_, err = e.UpdateDealStage(deal.ID, models.StagePaymentConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.UpdateDealStage(deal.ID, models.StageProposalSent)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// closing is always available
	closed, err := e.UpdateDealStage(deal.ID, models.StageClosedLost)
	require.NoError(t, err)
	assert.Equal(t, models.StageClosedLost, closed.Stage)

	// and final means final
	_, err = e.UpdateDealStage(deal.ID, models.StageClosedWon)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.UpdateDealStage("missing", models.StageClosedWon)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTrainerProfile(t *testing.T) {
	e := newTestEngine()
	u, err := e.AddTrainerUser(UserInput{Name: "Rui", Email: "rui@example.com"}, TrainerProfileInput{
		Skills: []string{"go:senior"},
	})
	require.NoError(t, err)

	state := e.View()
	profile, ok := state.FindTrainerProfile(u.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleTrainer, u.Role)
	assert.Equal(t, []string{"go:senior"}, profile.Skills)
	require.Len(t, profile.ActivityLog, 1)

	updated, err := e.UpdateTrainerProfile(TrainerProfileInput{
		UserID:       u.ID,
		Skills:       []string{"go:senior", "k8s:mid"},
		Availability: models.AvailabilityBusy,
		Bio:          "10 years teaching",
	}, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityBusy, updated.Availability)
	assert.Len(t, updated.ActivityLog, 2)
	assert.Contains(t, updated.ActivityLog[1], "mgr-1")

	// the log only ever grows
	again, err := e.UpdateTrainerProfile(TrainerProfileInput{UserID: u.ID}, "mgr-2")
	require.NoError(t, err)
	assert.Len(t, again.ActivityLog, 3)

	_, err = e.UpdateTrainerProfile(TrainerProfileInput{UserID: "missing"}, "mgr-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserMaintenance(t *testing.T) {
	e := newTestEngine()
	u, err := e.AddSalesUser(UserInput{Name: "Caio", Email: "caio@example.com", Role: models.RoleSalesRetail})
	require.NoError(t, err)
	assert.True(t, u.Active)

	withAvatar, err := e.UpdateUserAvatar(u.ID, "https://cdn.example.com/caio.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/caio.png", withAvatar.Avatar)

	off, err := e.DeactivateUser(u.ID)
	require.NoError(t, err)
	assert.False(t, off.Active)

	_, err = e.UpdateUserAvatar("missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
