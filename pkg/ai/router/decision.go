package router

import (
	"vaulta-banking-be/pkg/intent"
)

// Confirmation is the reading of a reply to a yes/no question.
type Confirmation string

const (
	ConfirmationNone Confirmation = ""
	Affirm           Confirmation = "AFFIRM"
	Deny             Confirmation = "DENY"
	Unclear          Confirmation = "UNCLEAR"
)

// SmallTalk refines GREETING.
type SmallTalk string

const (
	SmallTalkNone     SmallTalk = ""
	SmallTalkGreeting SmallTalk = "greeting"
	SmallTalkThanks   SmallTalk = "thanks"
	SmallTalkGoodbye  SmallTalk = "goodbye"
	SmallTalkHelp     SmallTalk = "help"
	SmallTalkIdentity SmallTalk = "identity"
	// SmallTalkDecline is a "no" to a soft continuation offer.
	SmallTalkDecline SmallTalk = "decline"
)

var smallTalkOrder = []SmallTalk{
	SmallTalkGoodbye,
	SmallTalkThanks,
	SmallTalkIdentity,
	SmallTalkHelp,
	SmallTalkGreeting,
}

type Direction string

const (
	DirectionNone    Direction = ""
	DirectionEnable  Direction = "enable"
	DirectionDisable Direction = "disable"
)

// Slots are flow parameters read from the same utterance.
type Slots struct {
	Direction    Direction
	CardType     string // "debit" or "credit"
	CardLast4    string
	More         bool
	FeedbackKind string // "complaint", "praise" or "suggestion"
}

// Source records which routing rule produced a decision.
type Source string

const (
	SourceFraudOverride Source = "fraud_override"
	SourcePending       Source = "pending_confirmation"
	SourceContinuation  Source = "continuation"
	SourceSmallTalk     Source = "small_talk"
	SourceClassifier    Source = "classifier"
	SourceEmpty         Source = "empty"
)

// Decision is the router's verdict for one utterance.
type Decision struct {
	Intent       intent.Intent
	Confidence   float64
	Source       Source
	Confirmation Confirmation
	SmallTalk    SmallTalk
	// Continue marks a follow-up inside the active flow (next page of
	// transactions, repeat confirmation) rather than a fresh request.
	Continue bool
	Slots    Slots
	// ClassifierErr is set when the classifier failed and the decision fell
	// back to UNKNOWN.
	ClassifierErr error
}
