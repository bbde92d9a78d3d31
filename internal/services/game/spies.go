package game

import (
	"github.com/casuskim/casus/internal/dependencies/random"
	"github.com/casuskim/casus/internal/model"
)

// EffectiveSpyCount clamps the requested spy count so spies never reach a majority.
// The result is at most floor(players/2) and at least 1 when players >= 2.
func EffectiveSpyCount(requested, players int) int {
	limit := players / 2
	if requested > limit {
		requested = limit
	}
	if requested < 1 && limit >= 1 {
		requested = 1
	}
	return requested
}

// SelectSpies picks count distinct players uniformly at random by shuffling a copy
// of the roster and taking a prefix
func SelectSpies(r random.Random, players []*model.Player, count int) []model.PlayerID {
	ids := make([]model.PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	random.Shuffle(r, len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if count > len(ids) {
		count = len(ids)
	}
	return ids[:count:count]
}
