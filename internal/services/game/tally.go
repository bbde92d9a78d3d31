package game

import (
	"github.com/casuskim/casus/internal/model"
)

// TallyResult is the aggregated ballot outcome
type TallyResult struct {
	// Suspect is the player with the most votes
	Suspect model.PlayerID
	// Counts holds one entry per voted-for player, ordered by the first ballot naming them
	Counts []model.VoteCount
}

// Tally counts the room's counted ballots. Ties are broken in favour of the
// target whose first ballot came earliest in ballot order, so the result only
// depends on the ballots and their order.
func Tally(room *model.Room) TallyResult {
	var result TallyResult
	index := make(map[model.PlayerID]int)

	for _, b := range room.CountedBallots() {
		i, ok := index[b.Target]
		if !ok {
			i = len(result.Counts)
			index[b.Target] = i
			result.Counts = append(result.Counts, model.VoteCount{
				PlayerID: b.Target,
				Name:     nameOf(room, b.Target),
				Voters:   []string{},
			})
		}
		result.Counts[i].Count++
		result.Counts[i].Voters = append(result.Counts[i].Voters, nameOf(room, b.Voter))
	}

	best := 0
	for _, c := range result.Counts {
		if c.Count > best {
			best = c.Count
			result.Suspect = c.PlayerID
		}
	}
	return result
}

func nameOf(room *model.Room, id model.PlayerID) string {
	if p := room.GetPlayer(id); p != nil {
		return p.Name
	}
	return string(id)
}

// VoteCountsByName flattens counts into the name keyed maps sent to clients
func VoteCountsByName(counts []model.VoteCount) (map[string]int, map[string][]string) {
	totals := make(map[string]int, len(counts))
	details := make(map[string][]string, len(counts))
	for _, c := range counts {
		totals[c.Name] = c.Count
		details[c.Name] = c.Voters
	}
	return totals, details
}
