package v1

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

var errDB = errors.New("db down")

type fakeUsers struct {
	mu        sync.Mutex
	rows      map[string]domain.UserRow
	getErr    error
	lastLogin map[int]int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[string]domain.UserRow{}, lastLogin: map[int]int{}}
}

func (f *fakeUsers) add(t *testing.T, id int, username, password string, role domain.Role, active bool) {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.rows[username] = domain.UserRow{
		ID: id, Username: username, Email: username + "@newsroom.test",
		PasswordHash: string(h), Role: role, Active: active,
	}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.UserRow, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	row, ok := f.rows[username]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.UserRow, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []domain.UserRow
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogin[userID]++
	return nil
}

type fakeArticles struct {
	items    []domain.Article
	err      error
	since    time.Time
	lastPage domain.PageRequest
}

func (f *fakeArticles) page(req domain.PageRequest, publishedOnly bool) []domain.Article {
	var filtered []domain.Article
	for _, a := range f.items {
		if publishedOnly && !a.Published {
			continue
		}
		if req.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *req.CategoryID) {
			continue
		}
		filtered = append(filtered, a)
	}
	if req.Offset >= len(filtered) {
		return []domain.Article{}
	}
	end := req.Offset + req.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[req.Offset:end]
}

func (f *fakeArticles) ListPublished(_ context.Context, req domain.PageRequest) ([]domain.Article, error) {
	f.lastPage = req
	if f.err != nil {
		return nil, f.err
	}
	return f.page(req, true), nil
}

func (f *fakeArticles) ListAll(_ context.Context, req domain.PageRequest) ([]domain.Article, error) {
	f.lastPage = req
	if f.err != nil {
		return nil, f.err
	}
	return f.page(req, false), nil
}

func (f *fakeArticles) ListBreaking(_ context.Context, since time.Time, limit int) ([]domain.Article, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Article
	for _, a := range f.items {
		if a.Published && a.Breaking && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticles) GetPublished(_ context.Context, id int64) (*domain.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.items {
		if a.ID == id && a.Published {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeArticles) Publish(_ context.Context, id int64, at time.Time) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Published = true
			f.items[i].PublishedAt = &at
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakeArticles) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakeArticles) Categories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Slug: "politics", Name: "Politics"}}, f.err
}

func (f *fakeArticles) Stats(_ context.Context) (domain.Stats, error) {
	var s domain.Stats
	for _, a := range f.items {
		if a.Published {
			s.Published++
			if a.Breaking {
				s.Breaking++
			}
		} else {
			s.Drafts++
		}
	}
	return s, f.err
}
