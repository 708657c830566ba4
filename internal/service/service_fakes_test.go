package service

import (
	"context"
	"errors"
	"sort"

	"user_auth_api/internal/model"
	"user_auth_api/internal/repository"
)

// In-memory stand-ins for the repositories and the mailer so service behavior
// can be exercised without a database.

type fakeUserRepo struct {
	users  map[int]model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	found := u
	return &found, nil
}

func (f *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID int) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return errors.New("no such user")
	}
	for _, u := range f.users {
		if u.Email == user.Email && u.ID != user.ID {
			return repository.ErrDuplicateEmail
		}
	}
	stored.Email = user.Email
	stored.FullName = user.FullName
	stored.Phone = user.Phone
	stored.UpdatedAt = user.UpdatedAt
	f.users[user.ID] = stored
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	stored, ok := f.users[id]
	if !ok {
		return errors.New("no such user")
	}
	stored.PasswordHash = passwordHash
	f.users[id] = stored
	return nil
}

type fakeHistoryRepo struct {
	records []model.TokenHistory
	nextID  int
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1}
}

func (f *fakeHistoryRepo) Create(_ context.Context, record *model.TokenHistory) error {
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, *record)
	return nil
}

// newerThan orders records by creation time, falling back to insertion order
// when timestamps collide
func newerThan(a, b model.TokenHistory) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (f *fakeHistoryRepo) latest(match func(model.TokenHistory) bool) *model.TokenHistory {
	var best *model.TokenHistory
	for i := range f.records {
		r := f.records[i]
		if !match(r) {
			continue
		}
		if best == nil || newerThan(r, *best) {
			found := r
			best = &found
		}
	}
	return best
}

func (f *fakeHistoryRepo) FindLatestByUser(_ context.Context, userID int) (*model.TokenHistory, error) {
	return f.latest(func(r model.TokenHistory) bool { return r.UserID == userID }), nil
}

func (f *fakeHistoryRepo) FindLatestByUserAndActivity(_ context.Context, userID int, activity string) (*model.TokenHistory, error) {
	return f.latest(func(r model.TokenHistory) bool { return r.UserID == userID && r.Activity == activity }), nil
}

func (f *fakeHistoryRepo) FindLatestByTokenAndActivity(_ context.Context, token, activity string) (*model.TokenHistory, error) {
	return f.latest(func(r model.TokenHistory) bool { return r.Token == token && r.Activity == activity }), nil
}

func (f *fakeHistoryRepo) sortedDesc(match func(model.TokenHistory) bool) []model.TokenHistory {
	var out []model.TokenHistory
	for _, r := range f.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerThan(out[i], out[j]) })
	return out
}

func (f *fakeHistoryRepo) ListByUser(_ context.Context, userID int, limit int) ([]model.TokenHistory, error) {
	out := f.sortedDesc(func(r model.TokenHistory) bool { return r.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHistoryRepo) ListAll(_ context.Context) ([]model.TokenHistory, error) {
	return f.sortedDesc(func(model.TokenHistory) bool { return true }), nil
}

func (f *fakeHistoryRepo) MarkUsed(_ context.Context, id int) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Activity = model.ActivityResetCodeUsed
			return nil
		}
	}
	return errors.New("no such record")
}

// byActivity returns every record carrying the given activity label
func (f *fakeHistoryRepo) byActivity(activity string) []model.TokenHistory {
	var out []model.TokenHistory
	for _, r := range f.records {
		if r.Activity == activity {
			out = append(out, r)
		}
	}
	return out
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
