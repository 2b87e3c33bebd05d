// Package recipient computes which users are candidates for a notification
// and which are excluded from it, per event kind.
package recipient

import "github.com/pocketlist/push-fanout/internal/domain"

// Build derives the recipient set for one event.
//
// listMembers is the list's current membership, read fresh by the caller for
// item and chat events. Membership events ignore it and work from the
// event's own before/after snapshots instead, so a concurrent membership
// edit cannot shift who learns about the join or leave.
//
// Rules:
//   - creation with an assignee: exactly the assignee, nobody excluded —
//     assignment-to-self still notifies.
//   - creation without an assignee, state transitions, deletions, chat:
//     current members minus the actor.
//   - member_added: the members that existed before, minus the joiners.
//   - member_removed: the members that remain, minus the leavers.
func Build(ev domain.Event, listMembers []string) domain.RecipientSet {
	switch ev.Kind {
	case domain.KindTodoCreated, domain.KindShoppingItemCreated:
		if ev.Assignee != "" {
			return domain.NewRecipientSet([]string{ev.Assignee}, nil)
		}
		return domain.NewRecipientSet(listMembers, []string{ev.Actor})

	case domain.KindMemberAdded:
		return domain.NewRecipientSet(ev.BeforeMembers, ev.Added)

	case domain.KindMemberRemoved:
		return domain.NewRecipientSet(ev.AfterMembers, ev.Removed)

	default:
		// Completed/purchased, deletions, chat messages: everyone on the
		// list except whoever acted.
		return domain.NewRecipientSet(listMembers, []string{ev.Actor})
	}
}
