package bot

// ApplyEffects returns the agent view after a directive was accepted by the game.
// The input agent is not modified.
func ApplyEffects(a Agent, d Directive) Agent {
	out := a.clone()
	out.LastProcessedAt = d.DecidedAt
	out.Version++

	switch d.Class {
	case ActionBuild:
		if d.Params.Building != "" {
			out.Buildings[d.Params.Building]++
		}
	case ActionResearch:
		if d.Params.Research != "" {
			out.Research[d.Params.Research]++
		}
	case ActionFleet, ActionAttack:
		if len(d.Params.Fleet) > 0 {
			out.ActiveFleets++
			for unit, n := range d.Params.Fleet {
				left := out.Units[unit] - n
				if left < 0 {
					left = 0
				}
				out.Units[unit] = left
			}
		}
	case ActionAlliance:
		if d.Params.AllianceOp == AllianceJoin || d.Params.AllianceOp == AllianceCreate {
			out.AllianceID = d.Params.AllianceID
		}
	case ActionTrade:
		if t := d.Params.Trade; t != nil && t.Amount > 0 {
			amount := t.Amount
			if have := out.Resources[t.From]; amount > have {
				amount = have
			}
			out.Resources[t.From] -= amount
			out.Resources[t.To] += amount
		}
	}
	return out
}

func (a Agent) clone() Agent {
	out := a
	out.Buildings = copyIntMap(a.Buildings)
	out.Research = copyIntMap(a.Research)
	out.Units = copyIntMap(a.Units)
	out.Resources = make(map[Resource]int64, len(a.Resources))
	for k, v := range a.Resources {
		out.Resources[k] = v
	}
	return out
}

func (a Agent) Clone() Agent {
	return a.clone()
}

func copyIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
