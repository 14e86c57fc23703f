// models/state.go
package models

// State is the whole repository snapshot: every collection the system
// owns, serialized together as one JSON document.
type State struct {
	Users           []User           `json:"users"`
	Leads           []Lead           `json:"leads"`
	Deals           []Deal           `json:"deals"`
	Proposals       []Proposal       `json:"proposals"`
	Invoices        []Invoice        `json:"invoices"`
	TrainingClasses []TrainingClass  `json:"trainingClasses"`
	Learners        []Learner        `json:"learners"`
	TrainerProfiles []TrainerProfile `json:"trainerProfiles"`
}

// NewState returns an empty snapshot with every collection allocated.
func NewState() State {
	return State{
		Users:           []User{},
		Leads:           []Lead{},
		Deals:           []Deal{},
		Proposals:       []Proposal{},
		Invoices:        []Invoice{},
		TrainingClasses: []TrainingClass{},
		Learners:        []Learner{},
		TrainerProfiles: []TrainerProfile{},
	}
}

// Normalize replaces nil collections with empty ones. Older persisted blobs
// may predate a collection (trainerProfiles was added after launch), so a
// load must never hand out nil slices.
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Leads == nil {
		s.Leads = []Lead{}
	}
	if s.Deals == nil {
		s.Deals = []Deal{}
	}
	if s.Proposals == nil {
		s.Proposals = []Proposal{}
	}
	if s.Invoices == nil {
		s.Invoices = []Invoice{}
	}
	if s.TrainingClasses == nil {
		s.TrainingClasses = []TrainingClass{}
	}
	if s.Learners == nil {
		s.Learners = []Learner{}
	}
	if s.TrainerProfiles == nil {
		s.TrainerProfiles = []TrainerProfile{}
	}
}

// Clone returns a deep copy of the snapshot. Mutating the copy never
// touches the original, including the nested history and course slices.
func (s State) Clone() State {
	out := State{
		Users:           append([]User(nil), s.Users...),
		Leads:           append([]Lead(nil), s.Leads...),
		Deals:           append([]Deal(nil), s.Deals...),
		Proposals:       append([]Proposal(nil), s.Proposals...),
		Invoices:        append([]Invoice(nil), s.Invoices...),
		TrainingClasses: append([]TrainingClass(nil), s.TrainingClasses...),
		Learners:        append([]Learner(nil), s.Learners...),
		TrainerProfiles: append([]TrainerProfile(nil), s.TrainerProfiles...),
	}
	for i := range out.Leads {
		out.Leads[i].History = append([]string(nil), out.Leads[i].History...)
	}
	for i := range out.Proposals {
		out.Proposals[i].Courses = append([]Course(nil), out.Proposals[i].Courses...)
	}
	for i := range out.TrainerProfiles {
		p := &out.TrainerProfiles[i]
		p.Skills = append([]string(nil), p.Skills...)
		p.Courses = append([]string(nil), p.Courses...)
		p.Slots = append([]AvailabilitySlot(nil), p.Slots...)
		p.ActivityLog = append([]string(nil), p.ActivityLog...)
	}
	out.Normalize()
	return out
}

// FindUser returns the user with the given id, if any.
func (s State) FindUser(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// FindLead returns the lead with the given id, if any.
func (s State) FindLead(id string) (Lead, bool) {
	for _, l := range s.Leads {
		if l.ID == id {
			return l, true
		}
	}
	return Lead{}, false
}

// FindDeal returns the deal with the given id, if any.
func (s State) FindDeal(id string) (Deal, bool) {
	for _, d := range s.Deals {
		if d.ID == id {
			return d, true
		}
	}
	return Deal{}, false
}

// FindProposal returns the proposal with the given id, if any.
func (s State) FindProposal(id string) (Proposal, bool) {
	for _, p := range s.Proposals {
		if p.ID == id {
			return p, true
		}
	}
	return Proposal{}, false
}

// FindInvoice returns the invoice with the given id, if any.
func (s State) FindInvoice(id string) (Invoice, bool) {
	for _, i := range s.Invoices {
		if i.ID == id {
			return i, true
		}
	}
	return Invoice{}, false
}

// FindTrainingClass returns the training class with the given id, if any.
func (s State) FindTrainingClass(id string) (TrainingClass, bool) {
	for _, c := range s.TrainingClasses {
		if c.ID == id {
			return c, true
		}
	}
	return TrainingClass{}, false
}

// FindLearner returns the learner with the given id, if any.
func (s State) FindLearner(id string) (Learner, bool) {
	for _, l := range s.Learners {
		if l.ID == id {
			return l, true
		}
	}
	return Learner{}, false
}

// FindTrainerProfile returns the profile for the given user id, if any.
func (s State) FindTrainerProfile(userID string) (TrainerProfile, bool) {
	for _, p := range s.TrainerProfiles {
		if p.UserID == userID {
			return p, true
		}
	}
	return TrainerProfile{}, false
}
