package flow

import (
	"fmt"

	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

const (
	assistantName = "Alex"
	assistantRole = "Vaulta's banking assistant"
)

const (
	MsgNeedPIN           = "Thanks. Please provide your 4-digit PIN."
	MsgNeedCustomerID    = "Thanks. Please provide your Customer ID as well, then your PIN."
	MsgVerifyUnavailable = "I'm having trouble verifying your details right now. Please try again in a moment."
	MsgLocked            = "For your security, I've locked verification after too many failed attempts. " +
		"I'll connect you with a specialist to complete this safely. You can also contact Vaulta support directly."
	MsgUnknown = "I'm sorry, I didn't quite catch that. Could you tell me what you'd like to do? " +
		"For example, check your balance, review recent transactions or block a card."
	MsgAnythingElse = "Is there anything else I can help with?"

	MsgFraudNotRecorded = "I couldn't freeze your account or record a reference just now, but I've alerted our " +
		"fraud team and a specialist will contact you immediately."
	MsgFraudNotRecordedUnverified = "I understand this is urgent and I've alerted our fraud team, though I couldn't " +
		"record a reference just now. To freeze your account and block your cards, please give me your Customer ID and 4-digit PIN."
)

// CredentialsPrompt asks for identity before the gated intent can run.
func CredentialsPrompt(it intent.Intent) string {
	lead := "I'd be happy to help with that."
	switch it {
	case intent.CardBlock:
		lead = "I understand you need to block a card, and I'll help you right away."
	case intent.Balance, intent.Transactions, intent.Statement:
		lead = "I'd be happy to help you check your account information."
	case intent.ChequeBook:
		lead = "I can order a new cheque book for you."
	case intent.IntlToggle:
		lead = "I can update your international transaction settings."
	}
	return lead + " For your security, I'll need to verify your identity first. " +
		"Could you please provide your Customer ID and your 4-digit PIN?"
}

// VerificationFailed never says which credential was wrong.
func VerificationFailed(remaining int) string {
	msg := "I couldn't verify your identity with those credentials. Please check your Customer ID and PIN and try again."
	switch {
	case remaining == 1:
		msg += " You have 1 attempt remaining."
	case remaining > 1:
		msg += fmt.Sprintf(" You have %d attempts remaining.", remaining)
	}
	return msg
}

func retry(subject string) string {
	return fmt.Sprintf("I'm having trouble retrieving %s. Please try again.", subject)
}

func greeting(kind router.SmallTalk, channel store.Channel) string {
	switch kind {
	case router.SmallTalkThanks:
		return "You're welcome! " + MsgAnythingElse
	case router.SmallTalkGoodbye:
		return "Thank you for banking with Vaulta. Have a great day!"
	case router.SmallTalkDecline:
		return "No problem. " + MsgAnythingElse
	case router.SmallTalkHelp:
		return fmt.Sprintf("I'm %s, %s. I can help you check your balance, review recent transactions, "+
			"email a statement, look up your cards, loans and rewards, block a lost or stolen card, "+
			"order a cheque book, manage international transactions, report fraud and take your feedback. "+
			"What would you like to do?", assistantName, assistantRole)
	case router.SmallTalkIdentity:
		return fmt.Sprintf("I'm %s, %s. I'm here to help Vaulta customers with everyday banking, "+
			"from balances and cards to fraud reports. How may I assist you today?", assistantName, assistantRole)
	}
	if channel.Voice() {
		return fmt.Sprintf("Welcome to Vaulta Bank. I'm %s, your voice assistant. How can I help you today?", assistantName)
	}
	return "Hi! How can I help you today?"
}
