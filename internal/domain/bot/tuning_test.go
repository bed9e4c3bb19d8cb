package bot

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultTuning_Valid(t *testing.T) {
	tun := DefaultTuning()
	if err := tun.Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
	for _, p := range AllPersonalities() {
		if got := tun.Personalities[p].Weights.Total(); got != 100 {
			t.Fatalf("%s weights total = %d, want 100", p, got)
		}
	}
	if got := tun.CooldownFor(ActionAttack); got != time.Hour {
		t.Fatalf("attack cooldown = %s, want 1h", got)
	}
}

func TestTuningValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
		field  string
	}{
		{"workers", func(t *Tuning) { t.Workers = 0 }, "workers"},
		{"batch", func(t *Tuning) { t.BatchSize = -1 }, "batch_size"},
		{"interval", func(t *Tuning) { t.TickInterval = 0 }, "tick_interval"},
		{"send ratio", func(t *Tuning) {
			pt := t.Personalities[PersonalityEconomic]
			pt.FleetSendRatio = 1.5
			t.Personalities[PersonalityEconomic] = pt
		}, "personalities.economic.fleet_send_ratio"},
		{"negative weight", func(t *Tuning) {
			pt := t.Personalities[PersonalityAggressive]
			pt.Weights.Attack = -5
			t.Personalities[PersonalityAggressive] = pt
		}, "personalities.aggressive.weights.attack"},
		{"chance", func(t *Tuning) { t.PhalanxChance = 2 }, "phalanx_chance"},
		{"cooldown", func(t *Tuning) { t.Cooldowns[ActionTrade] = -time.Second }, "cooldowns.trade"},
		{"units", func(t *Tuning) { t.Units = nil }, "units"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tun := DefaultTuning()
			tc.mutate(&tun)
			err := tun.Validate()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tc.field {
				t.Fatalf("field = %v, want %s", err, tc.field)
			}
		})
	}
}

func TestTuningValidate_CronWithoutInterval(t *testing.T) {
	tun := DefaultTuning()
	tun.TickInterval = 0
	tun.TickCron = "*/5 * * * *"
	if err := tun.Validate(); err != nil {
		t.Fatalf("cron-only tuning should validate: %v", err)
	}
}
