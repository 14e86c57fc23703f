package workflow

import "github.com/traindesk/api-crm/internal/models"

type stageEdge struct {
	from, to models.DealStage
}

// dealStageGraph holds every legal forward move of the deal lifecycle.
// ClosedWon/ClosedLost are handled separately: any stage may close.
//
//	Qualification -> ProposalSent -> ProposalAccepted -> InvoiceSent
//	  -> PaymentConfirmed -> TrainingScheduled -> TrainingCompleted
var dealStageGraph = map[stageEdge]bool{
	{models.StageQualification, models.StageProposalSent}:          true,
	{models.StageProposalSent, models.StageProposalAccepted}:       true,
	{models.StageProposalAccepted, models.StageInvoiceSent}:        true,
	{models.StageInvoiceSent, models.StagePaymentConfirmed}:        true,
	{models.StagePaymentConfirmed, models.StageTrainingScheduled}:  true,
	{models.StageTrainingScheduled, models.StageTrainingCompleted}: true,
}

// CanMoveStage reports whether a deal may move from one stage to another.
func CanMoveStage(from, to models.DealStage) bool {
	if to == models.StageClosedWon || to == models.StageClosedLost {
		return from != models.StageClosedWon && from != models.StageClosedLost
	}
	return dealStageGraph[stageEdge{from, to}]
}

// IsTerminalStage reports whether no further moves are possible.
func IsTerminalStage(stage models.DealStage) bool {
	return stage == models.StageClosedWon || stage == models.StageClosedLost
}
