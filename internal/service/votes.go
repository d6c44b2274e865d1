package service

import "github.com/opencivic/councilvotes/internal/model"

// AssignVotes computes one vote value for every member of the canonical
// member list, evaluated independently per member with this precedence:
//
//  1. The item has recorded per-item votes: a member listed there gets
//     the translated value; an unlisted member falls back to the
//     meeting's attendance, yielding "Absent" for an absent status and a
//     blank vote otherwise.
//  2. No per-item votes and the item passed (a consent or voice vote):
//     every member gets "Yes" unless their attendance status was absent,
//     in which case "Absent".
//  3. Otherwise every member's vote is blank.
//
// An attendance status that is unknown or missing is treated as present.
// The consent-vote path is an inference substituting for individual
// votes the source system does not record; it is a heuristic, not ground
// truth.
func AssignVotes(item *model.AgendaItem, members []string) map[string]string {
	votes := make(map[string]string, len(members))

	switch {
	case len(item.ItemVotes) > 0:
		for _, member := range members {
			if value, ok := item.ItemVotes[member]; ok {
				votes[member] = model.TranslateVote(value)
				continue
			}
			if model.IsAbsentStatus(item.Attendance[member]) {
				votes[member] = model.VoteAbsent
			} else {
				votes[member] = ""
			}
		}

	case item.WasPassed():
		for _, member := range members {
			if model.IsAbsentStatus(item.Attendance[member]) {
				votes[member] = model.VoteAbsent
			} else {
				votes[member] = model.VoteYes
			}
		}

	default:
		for _, member := range members {
			votes[member] = ""
		}
	}

	return votes
}
