package repositories

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/callclub/models"
)

// MemoryStore keeps every entity in process memory behind one RWMutex. Each
// call is atomic on its own, like a single-row statement in Postgres, and
// values are copied on the way in and out so callers never share state with
// the store. Used by tests and by DATABASE_URL=memory.
type MemoryStore struct {
	mu               sync.RWMutex
	championships    map[string]*models.Championship
	matches          map[string]*models.Match
	predictions      map[int64]*models.Prediction
	predictionByPair map[predictionKey]int64
	users            map[string]*models.User
	leagues          map[string]*models.League
	nextPredictionID int64
	now              func() time.Time
}

type predictionKey struct {
	username string
	matchID  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		championships:    make(map[string]*models.Championship),
		matches:          make(map[string]*models.Match),
		predictions:      make(map[int64]*models.Prediction),
		predictionByPair: make(map[predictionKey]int64),
		users:            make(map[string]*models.User),
		leagues:          make(map[string]*models.League),
		now:              time.Now,
	}
}

func (s *MemoryStore) Championships() ChampionshipRepository { return &memoryChampionshipRepository{s} }
func (s *MemoryStore) Matches() MatchRepository             { return &memoryMatchRepository{s} }
func (s *MemoryStore) Predictions() PredictionRepository     { return &memoryPredictionRepository{s} }
func (s *MemoryStore) Users() UserRepository                 { return &memoryUserRepository{s} }
func (s *MemoryStore) Leagues() LeagueRepository             { return &memoryLeagueRepository{s} }

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneChampionship(c *models.Championship) *models.Championship {
	out := *c
	out.LogoURL = copyStringPtr(c.LogoURL)
	return &out
}

func cloneMatch(m *models.Match) *models.Match {
	out := *m
	out.HomeScore = copyIntPtr(m.HomeScore)
	out.AwayScore = copyIntPtr(m.AwayScore)
	out.Venue = copyStringPtr(m.Venue)
	return &out
}

func clonePrediction(p *models.Prediction) *models.Prediction {
	out := *p
	out.LeagueID = copyStringPtr(p.LeagueID)
	out.Points = copyIntPtr(p.Points)
	return &out
}

func cloneUser(u *models.User) *models.User {
	out := *u
	out.OwnedLeagues = slices.Clone(u.OwnedLeagues)
	out.JoinedLeagues = slices.Clone(u.JoinedLeagues)
	if out.OwnedLeagues == nil {
		out.OwnedLeagues = []string{}
	}
	if out.JoinedLeagues == nil {
		out.JoinedLeagues = []string{}
	}
	return &out
}

func cloneLeague(l *models.League) *models.League {
	out := *l
	out.Members = slices.Clone(l.Members)
	if out.Members == nil {
		out.Members = []string{}
	}
	return &out
}

// --- championships ---

type memoryChampionshipRepository struct{ s *MemoryStore }

func (r *memoryChampionshipRepository) Create(_ context.Context, c *models.Championship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.championships[c.ID]; exists {
		return ErrChampionshipConflict
	}
	r.s.championships[c.ID] = cloneChampionship(c)
	return nil
}

func (r *memoryChampionshipRepository) GetByID(_ context.Context, id string) (*models.Championship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.championships[id]
	if !ok {
		return nil, ErrChampionshipNotFound
	}
	return cloneChampionship(c), nil
}

func (r *memoryChampionshipRepository) List(_ context.Context, activeOnly bool) ([]*models.Championship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Championship, 0, len(r.s.championships))
	for _, c := range r.s.championships {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, cloneChampionship(c))
	}
	slices.SortFunc(out, func(a, b *models.Championship) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// --- matches ---

type memoryMatchRepository struct{ s *MemoryStore }

func (r *memoryMatchRepository) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r *memoryMatchRepository) List(_ context.Context, filter MatchFilter) ([]*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		if filter.ChampionshipID != "" && m.ChampionshipID != filter.ChampionshipID {
			continue
		}
		if filter.Round > 0 && m.RoundNumber != filter.Round {
			continue
		}
		if filter.FinishedOnly && !m.IsFinished {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	slices.SortFunc(out, func(a, b *models.Match) int {
		return cmp.Or(
			cmp.Compare(a.RoundNumber, b.RoundNumber),
			a.KickoffAt.Compare(b.KickoffAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

func (r *memoryMatchRepository) Upsert(_ context.Context, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.championships[m.ChampionshipID]; !ok {
		return ErrMatchChampionshipInvalid
	}
	m.UpdatedAt = r.s.now()
	r.s.matches[m.ID] = cloneMatch(m)
	for _, p := range r.s.predictions {
		if p.MatchID == m.ID {
			p.ChampionshipID = m.ChampionshipID
			p.RoundNumber = m.RoundNumber
		}
	}
	return nil
}

func (r *memoryMatchRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.matches), nil
}

func (r *memoryMatchRepository) UpdateResult(_ context.Context, id string, homeScore, awayScore *int, finished bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.HomeScore = copyIntPtr(homeScore)
	m.AwayScore = copyIntPtr(awayScore)
	m.IsFinished = finished
	m.UpdatedAt = r.s.now()
	return nil
}

// --- predictions ---

type memoryPredictionRepository struct{ s *MemoryStore }

func (r *memoryPredictionRepository) Upsert(_ context.Context, p *models.Prediction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.Username]; !ok {
		return ErrPredictionRefInvalid
	}
	if _, ok := r.s.matches[p.MatchID]; !ok {
		return ErrPredictionRefInvalid
	}

	key := predictionKey{username: p.Username, matchID: p.MatchID}
	if id, exists := r.s.predictionByPair[key]; exists {
		stored := r.s.predictions[id]
		stored.ChampionshipID = p.ChampionshipID
		stored.LeagueID = copyStringPtr(p.LeagueID)
		stored.RoundNumber = p.RoundNumber
		stored.HomePrediction = p.HomePrediction
		stored.AwayPrediction = p.AwayPrediction
		stored.Points = nil
		p.ID = stored.ID
		p.CreatedAt = stored.CreatedAt
		p.Points = nil
		return nil
	}

	r.s.nextPredictionID++
	p.ID = r.s.nextPredictionID
	p.CreatedAt = r.s.now()
	p.Points = nil
	r.s.predictions[p.ID] = clonePrediction(p)
	r.s.predictionByPair[key] = p.ID
	return nil
}

func (r *memoryPredictionRepository) GetByUserAndMatch(_ context.Context, username, matchID string) (*models.Prediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.predictionByPair[predictionKey{username: username, matchID: matchID}]
	if !ok {
		return nil, ErrPredictionNotFound
	}
	return clonePrediction(r.s.predictions[id]), nil
}

func (r *memoryPredictionRepository) List(_ context.Context, filter PredictionFilter) ([]*models.Prediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Prediction, 0)
	for _, p := range r.s.predictions {
		if filter.Username != "" && p.Username != filter.Username {
			continue
		}
		if filter.MatchID != "" && p.MatchID != filter.MatchID {
			continue
		}
		if filter.ChampionshipID != "" && p.ChampionshipID != filter.ChampionshipID {
			continue
		}
		if filter.Round > 0 && p.RoundNumber != filter.Round {
			continue
		}
		out = append(out, clonePrediction(p))
	}
	slices.SortFunc(out, func(a, b *models.Prediction) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memoryPredictionRepository) UpdatePoints(_ context.Context, id int64, points *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.predictions[id]
	if !ok {
		return ErrPredictionNotFound
	}
	p.Points = copyIntPtr(points)
	return nil
}

func (r *memoryPredictionRepository) SumPointsByUsername(_ context.Context, username string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for _, p := range r.s.predictions {
		if p.Username == username && p.Points != nil {
			total += *p.Points
		}
	}
	return total, nil
}

type scorelineKey struct {
	matchID    string
	home, away int
}

func (r *memoryPredictionRepository) PopularScorelines(_ context.Context, matchIDs []string) ([]*models.ScorelineVotes, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	votes := make(map[scorelineKey]int)
	for _, p := range r.s.predictions {
		if slices.Contains(matchIDs, p.MatchID) {
			votes[scorelineKey{p.MatchID, p.HomePrediction, p.AwayPrediction}]++
		}
	}

	best := make(map[string]*models.ScorelineVotes)
	for k, n := range votes {
		cur, ok := best[k.matchID]
		if ok && cmp.Or(cmp.Compare(cur.Count, n), cmp.Compare(k.home, cur.HomePrediction), cmp.Compare(k.away, cur.AwayPrediction)) >= 0 {
			continue
		}
		best[k.matchID] = &models.ScorelineVotes{MatchID: k.matchID, HomePrediction: k.home, AwayPrediction: k.away, Count: n}
	}

	out := make([]*models.ScorelineVotes, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *models.ScorelineVotes) int { return cmp.Compare(a.MatchID, b.MatchID) })
	return out, nil
}

func (r *memoryPredictionRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.predictions), nil
}

// --- users ---

type memoryUserRepository struct{ s *MemoryStore }

func (r *memoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[u.Username]; exists {
		return ErrUserUsernameConflict
	}
	u.CreatedAt = r.s.now()
	u.TotalPoints = 0
	u.IsBanned = false
	u.OwnedLeagues = []string{}
	u.JoinedLeagues = []string{}
	r.s.users[u.Username] = cloneUser(u)
	return nil
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) List(_ context.Context, includeBanned bool) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if !includeBanned && u.IsBanned {
			continue
		}
		out = append(out, cloneUser(u))
	}
	slices.SortFunc(out, func(a, b *models.User) int { return cmp.Compare(a.Username, b.Username) })
	return out, nil
}

// update runs fn on the stored user under the write lock.
func (r *memoryUserRepository) update(username string, fn func(u *models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *memoryUserRepository) SetTotalPoints(_ context.Context, username string, total int) error {
	return r.update(username, func(u *models.User) { u.TotalPoints = total })
}

func (r *memoryUserRepository) SetBanned(_ context.Context, username string, banned bool) error {
	return r.update(username, func(u *models.User) { u.IsBanned = banned })
}

func (r *memoryUserRepository) SetPlan(_ context.Context, username string, plan models.PlanType) error {
	return r.update(username, func(u *models.User) { u.Plan = plan })
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func removeAll(list []string, v string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == v })
}

func (r *memoryUserRepository) AddOwnedLeague(_ context.Context, username, leagueID string) error {
	return r.update(username, func(u *models.User) { u.OwnedLeagues = appendUnique(u.OwnedLeagues, leagueID) })
}

func (r *memoryUserRepository) AddJoinedLeague(_ context.Context, username, leagueID string) error {
	return r.update(username, func(u *models.User) { u.JoinedLeagues = appendUnique(u.JoinedLeagues, leagueID) })
}

func (r *memoryUserRepository) RemoveJoinedLeague(_ context.Context, username, leagueID string) error {
	return r.update(username, func(u *models.User) { u.JoinedLeagues = removeAll(u.JoinedLeagues, leagueID) })
}

func (r *memoryUserRepository) RemoveLeagueReferences(_ context.Context, leagueID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		u.OwnedLeagues = removeAll(u.OwnedLeagues, leagueID)
		u.JoinedLeagues = removeAll(u.JoinedLeagues, leagueID)
	}
	return nil
}

func (r *memoryUserRepository) CountByPlan(_ context.Context) (map[models.PlanType]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[models.PlanType]int)
	for _, u := range r.s.users {
		counts[u.Plan]++
	}
	return counts, nil
}

// --- leagues ---

type memoryLeagueRepository struct{ s *MemoryStore }

func (r *memoryLeagueRepository) Create(_ context.Context, l *models.League) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[l.OwnerUsername]; !ok {
		return ErrLeagueRefInvalid
	}
	if _, ok := r.s.championships[l.ChampionshipID]; !ok {
		return ErrLeagueRefInvalid
	}
	if _, ok := r.s.leagues[l.ID]; ok {
		return ErrLeagueIDConflict
	}
	for _, existing := range r.s.leagues {
		if existing.InviteCode == l.InviteCode {
			return ErrLeagueInviteCodeConflict
		}
	}
	l.CreatedAt = r.s.now()
	r.s.leagues[l.ID] = cloneLeague(l)
	return nil
}

func (r *memoryLeagueRepository) GetByID(_ context.Context, id string) (*models.League, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leagues[id]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	return cloneLeague(l), nil
}

func (r *memoryLeagueRepository) GetByInviteCode(_ context.Context, code string) (*models.League, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.leagues {
		if l.InviteCode == code {
			return cloneLeague(l), nil
		}
	}
	return nil, ErrLeagueNotFound
}

func (r *memoryLeagueRepository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByInviteCode(ctx, code)
	if err == ErrLeagueNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *memoryLeagueRepository) ListByIDs(_ context.Context, ids []string) ([]*models.League, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.League, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.s.leagues[id]; ok && !slices.ContainsFunc(out, func(x *models.League) bool { return x.ID == id }) {
			out = append(out, cloneLeague(l))
		}
	}
	slices.SortFunc(out, func(a, b *models.League) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *memoryLeagueRepository) AddMember(_ context.Context, id, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leagues[id]
	if !ok || l.HasMember(username) || l.IsFull() {
		return false, nil
	}
	l.Members = append(l.Members, username)
	return true, nil
}

func (r *memoryLeagueRepository) RemoveMember(_ context.Context, id, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leagues[id]
	if !ok {
		return ErrLeagueNotFound
	}
	l.Members = removeAll(l.Members, username)
	return nil
}

func (r *memoryLeagueRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leagues[id]; !ok {
		return ErrLeagueNotFound
	}
	delete(r.s.leagues, id)
	return nil
}

func (r *memoryLeagueRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.leagues), nil
}
