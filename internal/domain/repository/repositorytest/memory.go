// Package repositorytest provides in-memory repositories for tests. They
// follow the same outcome rules as the real storage drivers.
package repositorytest

import (
	"context"
	"slices"
	"sync"
	"time"

	"mesto_backend/internal/common/validate"
	"mesto_backend/internal/domain/model"
	"mesto_backend/internal/domain/repository"
)

// Store backs both repositories and counts calls, so tests can assert that
// a request never reached storage.
type Store struct {
	mu    sync.Mutex
	users map[string]model.User
	cards map[string]model.Card
	order []string
	calls int

	// FailWith, when set, is returned by every call as an OutcomeFailure.
	FailWith error
}

func NewStore() *Store {
	return &Store{
		users: map[string]model.User{},
		cards: map[string]model.Card{},
	}
}

func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Store) enter(op string) error {
	s.calls++
	if s.FailWith != nil {
		return repository.NewStorageError(op, repository.OutcomeFailure, s.FailWith)
	}
	return nil
}

func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

func (s *Store) Cards() repository.CardRepository { return &cardRepo{s} }

func checkID(op, id string) error {
	if !validate.IsObjectID(id) {
		return repository.NewStorageError(op, repository.OutcomeInvalid, nil)
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	const op = "memory.Users.Create"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return err
	}
	if err := repository.CheckUser(op, user); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.NewStorageError(op, repository.OutcomeDuplicate, nil)
		}
	}
	user.ID = repository.NewID()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindAll(_ context.Context) ([]model.User, error) {
	const op = "memory.Users.FindAll"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.Password = ""
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b model.User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return users, nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	const op = "memory.Users.FindByID"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	if err := checkID(op, id); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.NewStorageError(op, repository.OutcomeNotFound, nil)
	}
	u.Password = ""
	return &u, nil
}

func (r *userRepo) FindByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	const op = "memory.Users.FindByEmailWithPassword"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.NewStorageError(op, repository.OutcomeNotFound, nil)
}

func (r *userRepo) Update(_ context.Context, id string, update model.UserUpdate) (*model.User, error) {
	const op = "memory.Users.Update"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	if err := checkID(op, id); err != nil {
		return nil, err
	}
	if err := repository.CheckUserUpdate(op, update); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.NewStorageError(op, repository.OutcomeNotFound, nil)
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.About != nil {
		u.About = *update.About
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	r.s.users[id] = u
	u.Password = ""
	return &u, nil
}

// DeleteUser removes a user directly, simulating an account that
// disappears while its token is still valid.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type cardRepo struct{ s *Store }

func copyCard(c model.Card) *model.Card {
	c.Likes = slices.Clone(c.Likes)
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return &c
}

func (r *cardRepo) Create(_ context.Context, card *model.Card) error {
	const op = "memory.Cards.Create"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return err
	}
	if err := repository.CheckCard(op, card); err != nil {
		return err
	}
	card.ID = repository.NewID()
	card.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	card.Likes = []string{}
	r.s.cards[card.ID] = *copyCard(*card)
	r.s.order = append(r.s.order, card.ID)
	return nil
}

func (r *cardRepo) FindAll(_ context.Context) ([]model.Card, error) {
	const op = "memory.Cards.FindAll"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	cards := []model.Card{}
	for _, id := range r.s.order {
		if c, ok := r.s.cards[id]; ok {
			cards = append(cards, *copyCard(c))
		}
	}
	return cards, nil
}

func (r *cardRepo) FindByID(_ context.Context, id string) (*model.Card, error) {
	const op = "memory.Cards.FindByID"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	if err := checkID(op, id); err != nil {
		return nil, err
	}
	c, ok := r.s.cards[id]
	if !ok {
		return nil, repository.NewStorageError(op, repository.OutcomeNotFound, nil)
	}
	return copyCard(c), nil
}

func (r *cardRepo) DeleteByID(_ context.Context, id string) error {
	const op = "memory.Cards.DeleteByID"
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return err
	}
	if err := checkID(op, id); err != nil {
		return err
	}
	if _, ok := r.s.cards[id]; !ok {
		return repository.NewStorageError(op, repository.OutcomeNotFound, nil)
	}
	delete(r.s.cards, id)
	return nil
}

func (r *cardRepo) AddLike(_ context.Context, cardID, userID string) (*model.Card, error) {
	return r.updateLikes("memory.Cards.AddLike", cardID, userID, func(likes []string) []string {
		if slices.Contains(likes, userID) {
			return likes
		}
		return append(likes, userID)
	})
}

func (r *cardRepo) RemoveLike(_ context.Context, cardID, userID string) (*model.Card, error) {
	return r.updateLikes("memory.Cards.RemoveLike", cardID, userID, func(likes []string) []string {
		return slices.DeleteFunc(likes, func(id string) bool { return id == userID })
	})
}

func (r *cardRepo) updateLikes(op, cardID, userID string, apply func([]string) []string) (*model.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(op); err != nil {
		return nil, err
	}
	if err := checkID(op, cardID); err != nil {
		return nil, err
	}
	if err := checkID(op, userID); err != nil {
		return nil, err
	}
	c, ok := r.s.cards[cardID]
	if !ok {
		return nil, repository.NewStorageError(op, repository.OutcomeNotFound, nil)
	}
	c.Likes = apply(slices.Clone(c.Likes))
	r.s.cards[cardID] = c
	return copyCard(c), nil
}
