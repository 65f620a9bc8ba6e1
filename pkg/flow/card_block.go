package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

// cardBlock is a two-turn flow. The first turn picks a card and parks a
// BLOCK_CARD confirmation on the session; only an explicit affirmative on a
// later turn blocks it.
func (h *Handlers) cardBlock(ctx context.Context, req Request) Response {
	sess := req.Session
	d := req.Decision

	if sess.Pending != nil && sess.Pending.Kind == store.ActionBlockCard {
		return h.confirmBlock(ctx, sess, d.Confirmation)
	}
	if d.Continue && d.Confirmation == router.Affirm && sess.LastAction != nil {
		return h.repeatBlock(ctx, sess)
	}

	cards, err := h.bank.Cards(ctx, sess.CustomerID)
	if err != nil {
		return failed(sess, "cards", retry("your card information"))
	}
	if len(cards) == 0 {
		return done(sess, "You don't have any cards on file.")
	}

	var (
		chosen []banking.Card
		prefix string
	)
	slots := d.Slots
	if slots.CardType != "" || slots.CardLast4 != "" {
		chosen = matchCards(cards, slots)
		if len(chosen) == 0 {
			prefix = "I couldn't find a card matching that. "
			chosen = activeOrAll(cards)
		}
	} else {
		chosen = activeCards(cards)
		if len(chosen) == 0 {
			return done(sess, "All of your cards are already blocked. "+MsgAnythingElse)
		}
	}

	sess.ClearFlow()
	sess.ActiveFlow = intent.CardBlock
	if len(chosen) > 1 {
		return Response{Session: sess, Reply: prefix + whichCard(chosen)}
	}

	card := chosen[0]
	if card.Status == banking.CardBlocked {
		return done(sess, fmt.Sprintf("%sYour %s card ending in %s is already blocked. %s",
			prefix, card.Type, card.LastFour, MsgAnythingElse))
	}
	sess.Pending = &store.PendingAction{
		Kind:      store.ActionBlockCard,
		CardID:    card.ID,
		CardLast4: card.LastFour,
		CardType:  card.Type,
	}
	return Response{
		Session: sess,
		Reply: fmt.Sprintf("%sI've found your %s card ending in %s. Blocking it stops all new payments "+
			"and can't be undone here. Shall I block it?", prefix, card.Type, card.LastFour),
	}
}

func (h *Handlers) confirmBlock(ctx context.Context, sess store.ConversationSession, c router.Confirmation) Response {
	pending := *sess.Pending

	switch c {
	case router.Affirm:
	case router.Deny:
		return done(sess, fmt.Sprintf("Okay, I've cancelled that. Your %s card ending in %s remains active. %s",
			pending.CardType, pending.CardLast4, MsgAnythingElse))
	default:
		return done(sess, fmt.Sprintf("I didn't get a clear yes, so I haven't blocked anything. "+
			"Your %s card ending in %s remains active. If you still want it blocked, just ask again.",
			pending.CardType, pending.CardLast4))
	}

	res, err := h.bank.BlockCard(ctx, sess.CustomerID, pending.CardID)
	if err != nil {
		if errors.Is(err, banking.ErrNotFound) {
			return done(sess, "I couldn't find that card on your account anymore, so nothing was blocked.")
		}
		// The confirmation stays parked so a retry does not need a new "yes".
		return failed(sess, "block_card", "I'm having trouble blocking your card right now. Your card has not been blocked yet. "+
			"Please say yes to try again.")
	}

	sess.Pending = nil
	sess.ActiveFlow = intent.CardBlock
	sess.LastAction = &pending
	if res.AlreadyBlocked {
		return Response{
			Session: sess,
			Reply: fmt.Sprintf("Your %s card ending in %s is already blocked. No further action is needed.",
				pending.CardType, pending.CardLast4),
		}
	}
	return Response{
		Session:   sess,
		Reference: res.Reference,
		Reply: fmt.Sprintf("Done. Your %s card ending in %s is now blocked. Your reference number is %s. %s",
			pending.CardType, pending.CardLast4, res.Reference, MsgAnythingElse),
	}
}

// repeatBlock answers a second "yes" after a completed block. BlockCard is
// idempotent, so this reports the card's current state.
func (h *Handlers) repeatBlock(ctx context.Context, sess store.ConversationSession) Response {
	last := *sess.LastAction
	res, err := h.bank.BlockCard(ctx, sess.CustomerID, last.CardID)
	if err != nil {
		return failed(sess, "block_card", "I'm having trouble checking your card right now. Please try again.")
	}
	if res.AlreadyBlocked {
		return Response{
			Session: sess,
			Reply: fmt.Sprintf("Your %s card ending in %s is already blocked. No further action is needed.",
				last.CardType, last.CardLast4),
		}
	}
	return Response{
		Session:   sess,
		Reference: res.Reference,
		Reply: fmt.Sprintf("Your %s card ending in %s is now blocked. Your reference number is %s.",
			last.CardType, last.CardLast4, res.Reference),
	}
}

func activeCards(cards []banking.Card) []banking.Card {
	var out []banking.Card
	for _, c := range cards {
		if c.Status == banking.CardActive {
			out = append(out, c)
		}
	}
	return out
}

func activeOrAll(cards []banking.Card) []banking.Card {
	if active := activeCards(cards); len(active) > 0 {
		return active
	}
	return cards
}

func matchCards(cards []banking.Card, slots router.Slots) []banking.Card {
	var out []banking.Card
	for _, c := range cards {
		if slots.CardLast4 != "" && c.LastFour != slots.CardLast4 {
			continue
		}
		if slots.CardType != "" && !strings.EqualFold(c.Type, slots.CardType) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func whichCard(cards []banking.Card) string {
	options := make([]string, 0, len(cards))
	for _, c := range cards {
		options = append(options, fmt.Sprintf("your %s card ending in %s", c.Type, c.LastFour))
	}
	if len(options) < 2 {
		return "Which card would you like to block?"
	}
	last := options[len(options)-1]
	return fmt.Sprintf("Which card is it? %s, or %s?",
		capitalize(strings.Join(options[:len(options)-1], ", ")), last)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
