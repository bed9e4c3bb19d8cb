package memory

import (
	"sort"
	"sync"
	"time"

	"starbots/internal/domain/bot"
)

type cooldownKey struct {
	agentID string
	class   bot.ActionClass
}

type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	agents    map[string]bot.Agent
	cooldowns map[cooldownKey]time.Time
	counters  map[string]int64
	audit     []bot.AuditEntry
}

func NewStore() *Store {
	return &Store{
		agents:    make(map[string]bot.Agent),
		cooldowns: make(map[cooldownKey]time.Time),
		counters:  make(map[string]int64),
	}
}

func (s *Store) SeedAgent(agent bot.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agent.ID] = agent.Clone()
}

func (s *Store) Agent(agentID string) (bot.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[agentID]
	if !ok {
		return bot.Agent{}, false
	}
	return a.Clone(), true
}

func (s *Store) SetCounter(name string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = value
}

func (s *Store) AuditEntries() []bot.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bot.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *Store) sortedAgentIDs() []string {
	ids := make([]string, 0, len(s.agents))
	for id := range s.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
