package ports

import (
	"time"

	"starbots/internal/domain/bot"
)

type TickMetrics interface {
	RecordOutcome(class bot.ActionClass, outcome bot.Outcome)
	RecordTick(duration time.Duration, applied, skipped, failed int)
}
