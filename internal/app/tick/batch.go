package tick

import (
	"sort"

	"starbots/internal/domain/bot"
)

// SelectBatch drops duplicate agents, orders the rest oldest-last-processed
// first (ties by id) and keeps at most size of them.
func SelectBatch(agents []bot.Agent, size int) []bot.Agent {
	seen := make(map[string]struct{}, len(agents))
	out := make([]bot.Agent, 0, len(agents))
	for _, a := range agents {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastProcessedAt.Equal(out[j].LastProcessedAt) {
			return out[i].LastProcessedAt.Before(out[j].LastProcessedAt)
		}
		return out[i].ID < out[j].ID
	})
	if size > 0 && len(out) > size {
		out = out[:size]
	}
	return out
}
